package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
)

// Logger defines the logging interface used by the Bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Transport is the broker connection the bridge drives.
// This interface is satisfied by *mqtt.Client. The implementation owns
// reconnect behaviour and must re-establish subscriptions identically on
// reconnect (idempotent subscribe).
type Transport interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern. The subscription
	// must survive reconnects.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool

	// Close disconnects gracefully.
	Close() error
}

// MessageSink receives every inbound message from the telemetry
// subscriptions. This interface is satisfied by *telemetry.Pipeline.
type MessageSink interface {
	Handle(ctx context.Context, topic string, payload []byte)
}

// Bridge connects the broker to the ingestion pipeline.
//
// Inbound telemetry runs synchronously on the transport's receive
// goroutine, one message at a time in arrival order. Outbound publishes
// may come concurrently from command dispatchers; the transport serialises
// them internally.
type Bridge struct {
	transport Transport
	sink      MessageSink
	roots     []string
	qos       byte
	logger    Logger

	ctx       context.Context
	ctxCancel context.CancelFunc
	stopOnce  sync.Once
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Transport is the broker connection.
	Transport Transport

	// Sink receives inbound telemetry messages.
	Sink MessageSink

	// Roots are the telemetry roots to subscribe under (one wildcard
	// subscription per root).
	Roots []string

	// QoS is the quality of service level for telemetry subscriptions.
	QoS byte

	// Logger is optional structured logging.
	Logger Logger
}

// New creates a bridge. Call Start to subscribe and begin ingestion.
func New(opts Options) (*Bridge, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("at least one telemetry root is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Bridge{
		transport: opts.Transport,
		sink:      opts.Sink,
		roots:     opts.Roots,
		qos:       opts.QoS,
		logger:    logger,
		ctx:       ctx,
		ctxCancel: cancel,
	}, nil
}

// Start subscribes to the full set of telemetry subtrees. The transport
// restores these subscriptions on every reconnect, so Start runs once.
func (b *Bridge) Start() error {
	var topics mqtt.Topics
	for _, root := range b.roots {
		topic := topics.TelemetryWildcard(root)
		if err := b.transport.Subscribe(topic, b.qos, b.handleMessage); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		b.logger.Info("subscribed to telemetry root", "topic", topic)
	}
	return nil
}

// Publish sends an outbound message to the broker. This satisfies the
// command dispatcher's Publisher dependency.
func (b *Bridge) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return b.transport.Publish(topic, payload, qos, retained)
}

// IsConnected reports whether the underlying transport is connected.
func (b *Bridge) IsConnected() bool {
	return b.transport.IsConnected()
}

// Close stops inbound dispatch and disconnects the transport.
func (b *Bridge) Close() error {
	var err error
	b.stopOnce.Do(func() {
		b.ctxCancel()
		err = b.transport.Close()
		b.logger.Info("bridge stopped")
	})
	return err
}

// handleMessage routes one inbound message into the pipeline. Errors never
// propagate to the transport; the pipeline logs and counts them itself.
func (b *Bridge) handleMessage(topic string, payload []byte) error {
	select {
	case <-b.ctx.Done():
		// Shutting down; abandon the message wholesale
		return nil
	default:
	}

	b.sink.Handle(b.ctx, topic, payload)
	return nil
}
