package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline holds the counters instrumenting the ingestion and command paths.
//
// All counters are safe for concurrent use. Construct with New and share a
// single instance across components.
type Pipeline struct {
	// MessagesReceived counts every message delivered by the broker,
	// including ones that later turn out not to be telemetry.
	MessagesReceived prometheus.Counter

	// ParseMisses counts messages whose topic did not match any telemetry
	// shape. These are dropped silently by the pipeline.
	ParseMisses prometheus.Counter

	// ResolutionFailures counts messages that parsed but could not be
	// resolved to a device, partitioned by reason (not_found, ambiguous).
	ResolutionFailures *prometheus.CounterVec

	// ValuesRejected counts payloads rejected during metric validation.
	ValuesRejected prometheus.Counter

	// Merges counts accepted state merges.
	Merges prometheus.Counter

	// SnapshotWrites counts successfully persisted state snapshots.
	SnapshotWrites prometheus.Counter

	// SnapshotFailures counts snapshot persistence failures. The merged
	// state is retained in the cache even when this increments.
	SnapshotFailures prometheus.Counter

	// CommandsDispatched counts commands successfully published.
	CommandsDispatched prometheus.Counter

	// CommandFailures counts commands that failed translation or publish,
	// partitioned by reason (invalid, unsupported, transport).
	CommandFailures *prometheus.CounterVec
}

// New creates the pipeline counters and registers them with reg.
//
// Parameters:
//   - reg: Registry to register the counters with (use prometheus.NewRegistry
//     in tests to avoid cross-test collisions)
//
// Returns:
//   - *Pipeline: Registered counter set
func New(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)

	return &Pipeline{
		MessagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "messages_received_total",
			Help:      "Messages delivered by the broker to the telemetry subscriber.",
		}),
		ParseMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "parse_misses_total",
			Help:      "Messages whose topic did not match any telemetry shape.",
		}),
		ResolutionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "resolution_failures_total",
			Help:      "Telemetry messages that could not be resolved to a device.",
		}, []string{"reason"}),
		ValuesRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "values_rejected_total",
			Help:      "Payloads rejected during metric validation.",
		}),
		Merges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "merges_total",
			Help:      "Accepted state merges.",
		}),
		SnapshotWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "snapshot_writes_total",
			Help:      "State snapshots persisted to the reading store.",
		}),
		SnapshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "ingest",
			Name:      "snapshot_failures_total",
			Help:      "Snapshot persistence failures (cache state retained).",
		}),
		CommandsDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "command",
			Name:      "dispatched_total",
			Help:      "Commands successfully published to a device command topic.",
		}),
		CommandFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brume",
			Subsystem: "command",
			Name:      "failures_total",
			Help:      "Commands that failed translation or publish.",
		}, []string{"reason"}),
	}
}

// Reasons used as label values on the partitioned counters.
const (
	ReasonNotFound    = "not_found"
	ReasonAmbiguous   = "ambiguous"
	ReasonInvalid     = "invalid"
	ReasonUnsupported = "unsupported"
	ReasonTransport   = "transport"
)
