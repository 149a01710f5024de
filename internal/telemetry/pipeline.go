package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/infrastructure/metrics"
)

// Logger defines the logging interface used by the telemetry pipeline.
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

// DeviceResolver resolves parsed telemetry scopes to devices.
// This interface is satisfied by *device.Resolver.
type DeviceResolver interface {
	// ResolveScope resolves a device-specific scope (root/device-id).
	ResolveScope(ctx context.Context, scope string) (*device.Device, error)

	// ResolveSingleton resolves a type-wide scope by topic root.
	ResolveSingleton(ctx context.Context, root string) (*device.Device, error)
}

// Pipeline runs the ingestion path for one inbound message:
// parse -> resolve -> merge -> persist.
//
// All errors are local and non-fatal. A bad message never terminates the
// receive loop; it is counted, logged where warranted, and dropped.
// Handle runs synchronously on the transport's receive goroutine, one
// message at a time, preserving per-device arrival order.
type Pipeline struct {
	parser   *Parser
	resolver DeviceResolver
	cache    *StateCache
	writer   *SnapshotWriter
	counters *metrics.Pipeline
	logger   Logger
}

// PipelineOptions holds dependencies for creating a pipeline.
type PipelineOptions struct {
	// Parser matches inbound topics against the configured roots.
	Parser *Parser

	// Resolver maps parsed scopes to devices.
	Resolver DeviceResolver

	// Cache holds the merged device states.
	Cache *StateCache

	// Writer persists snapshots after accepted merges.
	Writer *SnapshotWriter

	// Counters instruments the pipeline stages.
	Counters *metrics.Pipeline

	// Logger is optional structured logging.
	Logger Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if opts.Writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	if opts.Counters == nil {
		return nil, fmt.Errorf("counters are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Pipeline{
		parser:   opts.Parser,
		resolver: opts.Resolver,
		cache:    opts.Cache,
		writer:   opts.Writer,
		counters: opts.Counters,
		logger:   logger,
	}, nil
}

// Cache exposes the state cache for reporting-style reads.
func (p *Pipeline) Cache() *StateCache {
	return p.cache
}

// Handle processes one inbound message end to end.
func (p *Pipeline) Handle(ctx context.Context, topic string, payload []byte) {
	p.counters.MessagesReceived.Inc()

	parsed, ok := p.parser.Parse(topic)
	if !ok {
		// Not telemetry; the bus carries other subsystems' traffic
		p.counters.ParseMisses.Inc()
		return
	}

	dev, err := p.resolve(ctx, parsed)
	if err != nil {
		reason := metrics.ReasonNotFound
		if errors.Is(err, device.ErrDeviceAmbiguous) {
			reason = metrics.ReasonAmbiguous
		}
		p.counters.ResolutionFailures.WithLabelValues(reason).Inc()
		p.logger.Warn("telemetry resolution failed",
			"topic", topic, "scope", parsed.Scope, "error", err)
		return
	}

	merged, err := p.cache.Merge(dev, parsed.Metric, payload)
	if err != nil {
		if errors.Is(err, ErrUnknownMetric) {
			// Tolerated: firmware may report fields we do not track
			p.logger.Debug("unknown metric dropped",
				"device_id", dev.ID, "metric", parsed.Metric)
			return
		}
		p.counters.ValuesRejected.Inc()
		p.logger.Warn("metric value rejected",
			"device_id", dev.ID, "metric", parsed.Metric, "error", err)
		return
	}
	p.counters.Merges.Inc()

	if err := p.writer.Write(ctx, dev.ID, merged, parsed.Metric, merged[parsed.Metric]); err != nil {
		// Cache state is retained; the next successful write carries it forward
		p.counters.SnapshotFailures.Inc()
		p.logger.Error("snapshot persistence failed",
			"device_id", dev.ID, "error", err)
		return
	}
	p.counters.SnapshotWrites.Inc()
}

func (p *Pipeline) resolve(ctx context.Context, parsed ParsedTopic) (*device.Device, error) {
	if parsed.Kind == ScopeDevice {
		return p.resolver.ResolveScope(ctx, parsed.Scope)
	}
	return p.resolver.ResolveSingleton(ctx, parsed.Root)
}
