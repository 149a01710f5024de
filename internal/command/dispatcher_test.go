package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/infrastructure/metrics"
)

// mockLookup is a test implementation of DeviceLookup.
type mockLookup struct {
	devices map[string]*device.Device
}

func (m *mockLookup) GetDevice(_ context.Context, id string) (*device.Device, error) {
	if d, ok := m.devices[id]; ok {
		return d, nil
	}
	return nil, device.ErrDeviceNotFound
}

// mockPublisher records publishes and can simulate failures.
type mockPublisher struct {
	mu         sync.Mutex
	published  []publishedMessage
	publishErr error
}

type publishedMessage struct {
	topic   string
	payload string
	qos     byte
}

func (m *mockPublisher) Publish(topic string, payload []byte, qos byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{topic, string(payload), qos})
	return nil
}

type dispatcherFixture struct {
	dispatcher *Dispatcher
	publisher  *mockPublisher
	counters   *metrics.Pipeline
}

func newDispatcherFixture(t *testing.T, devices ...*device.Device) *dispatcherFixture {
	t.Helper()

	lookup := &mockLookup{devices: make(map[string]*device.Device)}
	for _, d := range devices {
		lookup.devices[d.ID] = d
	}

	publisher := &mockPublisher{}
	counters := metrics.New(prometheus.NewRegistry())

	dispatcher, err := NewDispatcher(DispatcherOptions{
		Translator: testTranslator(),
		Devices:    lookup,
		Publisher:  publisher,
		QoS:        1,
		Counters:   counters,
	})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	return &dispatcherFixture{dispatcher: dispatcher, publisher: publisher, counters: counters}
}

func TestDispatcher_Dispatch(t *testing.T) {
	plug := testPlug(device.Config{
		"mqtt": map[string]any{"base_topic": "acme/smart-plug/plug-01"},
	})
	f := newDispatcherFixture(t, plug)

	dispatch, err := f.dispatcher.Dispatch(context.Background(), "plug-01", ActionTurnOn)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if dispatch.Payload != "ON" {
		t.Errorf("payload = %q, want ON", dispatch.Payload)
	}

	if len(f.publisher.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(f.publisher.published))
	}
	msg := f.publisher.published[0]
	if msg.topic != "acme/smart-plug/plug-01/command" || msg.payload != "ON" {
		t.Errorf("published %+v", msg)
	}
	if msg.qos != 1 {
		t.Errorf("qos = %d, want 1", msg.qos)
	}

	if got := testutil.ToFloat64(f.counters.CommandsDispatched); got != 1 {
		t.Errorf("CommandsDispatched = %v, want 1", got)
	}
}

func TestDispatcher_Dispatch_UnknownDevice(t *testing.T) {
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "ghost", ActionTurnOn)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Dispatch() error = %v, want ErrInvalid", err)
	}

	got := testutil.ToFloat64(f.counters.CommandFailures.WithLabelValues(metrics.ReasonInvalid))
	if got != 1 {
		t.Errorf("CommandFailures[invalid] = %v, want 1", got)
	}
}

func TestDispatcher_Dispatch_DeactivatedDevice(t *testing.T) {
	plug := testPlug(device.Config{
		"mqtt": map[string]any{"base_topic": "acme/smart-plug/plug-01"},
	})
	plug.Active = false
	f := newDispatcherFixture(t, plug)

	_, err := f.dispatcher.Dispatch(context.Background(), "plug-01", ActionTurnOn)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Dispatch() error = %v, want ErrInvalid", err)
	}
}

func TestDispatcher_Dispatch_UnsupportedAction(t *testing.T) {
	plug := testPlug(device.Config{
		"mqtt": map[string]any{"base_topic": "acme/smart-plug/plug-01"},
	})
	f := newDispatcherFixture(t, plug)

	_, err := f.dispatcher.Dispatch(context.Background(), "plug-01", "spin")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Dispatch() error = %v, want ErrUnsupported", err)
	}

	got := testutil.ToFloat64(f.counters.CommandFailures.WithLabelValues(metrics.ReasonUnsupported))
	if got != 1 {
		t.Errorf("CommandFailures[unsupported] = %v, want 1", got)
	}
	if len(f.publisher.published) != 0 {
		t.Error("unsupported action was published")
	}
}

func TestDispatcher_Dispatch_TransportFailure(t *testing.T) {
	plug := testPlug(device.Config{
		"mqtt": map[string]any{"base_topic": "acme/smart-plug/plug-01"},
	})
	f := newDispatcherFixture(t, plug)
	f.publisher.publishErr = errors.New("broker unreachable")

	_, err := f.dispatcher.Dispatch(context.Background(), "plug-01", ActionTurnOn)
	if !errors.Is(err, ErrTransportFailure) {
		t.Errorf("Dispatch() error = %v, want ErrTransportFailure", err)
	}

	got := testutil.ToFloat64(f.counters.CommandFailures.WithLabelValues(metrics.ReasonTransport))
	if got != 1 {
		t.Errorf("CommandFailures[transport] = %v, want 1", got)
	}
}
