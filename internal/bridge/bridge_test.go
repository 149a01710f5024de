package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
)

// mockTransport is a test implementation of Transport.
type mockTransport struct {
	mu            sync.Mutex
	subscriptions map[string]mqtt.MessageHandler
	published     []publishedMessage
	subscribeErr  error
	publishErr    error
	connected     bool
	closed        bool
}

type publishedMessage struct {
	topic   string
	payload string
	qos     byte
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		subscriptions: make(map[string]mqtt.MessageHandler),
		connected:     true,
	}
}

func (m *mockTransport) Publish(topic string, payload []byte, qos byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{topic, string(payload), qos})
	return nil
}

func (m *mockTransport) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.subscriptions[topic] = handler
	return nil
}

func (m *mockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.connected = false
	return nil
}

// deliver simulates an inbound message on a subscribed wildcard.
func (m *mockTransport) deliver(t *testing.T, wildcard, topic string, payload []byte) {
	t.Helper()

	m.mu.Lock()
	handler, ok := m.subscriptions[wildcard]
	m.mu.Unlock()

	if !ok {
		t.Fatalf("no subscription for %q", wildcard)
	}
	if err := handler(topic, payload); err != nil {
		t.Fatalf("handler error = %v", err)
	}
}

// mockSink records messages routed into the pipeline.
type mockSink struct {
	mu       sync.Mutex
	messages []sinkMessage
}

type sinkMessage struct {
	topic   string
	payload string
}

func (m *mockSink) Handle(_ context.Context, topic string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, sinkMessage{topic, string(payload)})
}

func newTestBridge(t *testing.T, transport *mockTransport, sink *mockSink) *Bridge {
	t.Helper()

	b, err := New(Options{
		Transport: transport,
		Sink:      sink,
		Roots:     []string{"acme/humidifier", "acme/smart-plug"},
		QoS:       1,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestNew_Validation(t *testing.T) {
	transport := newMockTransport()
	sink := &mockSink{}

	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing transport", opts: Options{Sink: sink, Roots: []string{"a/b"}}},
		{name: "missing sink", opts: Options{Transport: transport, Roots: []string{"a/b"}}},
		{name: "no roots", opts: Options{Transport: transport, Sink: sink}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() error = nil, want validation error")
			}
		})
	}
}

func TestBridge_Start_SubscribesAllRoots(t *testing.T) {
	transport := newMockTransport()
	b := newTestBridge(t, transport, &mockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, wildcard := range []string{"acme/humidifier/#", "acme/smart-plug/#"} {
		if _, ok := transport.subscriptions[wildcard]; !ok {
			t.Errorf("missing subscription for %q", wildcard)
		}
	}
}

func TestBridge_Start_SubscribeFailure(t *testing.T) {
	transport := newMockTransport()
	transport.subscribeErr = errors.New("not connected")
	b := newTestBridge(t, transport, &mockSink{})

	if err := b.Start(); err == nil {
		t.Error("Start() error = nil, want subscribe failure")
	}
}

func TestBridge_RoutesInboundToSink(t *testing.T) {
	transport := newMockTransport()
	sink := &mockSink{}
	b := newTestBridge(t, transport, sink)

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	transport.deliver(t, "acme/humidifier/#", "acme/humidifier/hum-01/humidity", []byte("42,5"))

	if len(sink.messages) != 1 {
		t.Fatalf("sink received %d messages, want 1", len(sink.messages))
	}
	if sink.messages[0].topic != "acme/humidifier/hum-01/humidity" {
		t.Errorf("topic = %q", sink.messages[0].topic)
	}
	if sink.messages[0].payload != "42,5" {
		t.Errorf("payload = %q", sink.messages[0].payload)
	}
}

func TestBridge_Publish(t *testing.T) {
	transport := newMockTransport()
	b := newTestBridge(t, transport, &mockSink{})

	if err := b.Publish("acme/smart-plug/plug-01/command", []byte("ON"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(transport.published) != 1 {
		t.Fatalf("transport published %d messages, want 1", len(transport.published))
	}
	if transport.published[0].payload != "ON" {
		t.Errorf("payload = %q, want ON", transport.published[0].payload)
	}
}

func TestBridge_Close(t *testing.T) {
	transport := newMockTransport()
	sink := &mockSink{}
	b := newTestBridge(t, transport, sink)

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !transport.closed {
		t.Error("transport not closed")
	}

	// Messages arriving after Close are abandoned
	transport.deliver(t, "acme/humidifier/#", "acme/humidifier/status", []byte("1"))
	if len(sink.messages) != 0 {
		t.Errorf("sink received %d messages after Close, want 0", len(sink.messages))
	}

	// Close is idempotent
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
