package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/reading"
)

// Circuit breaker settings for the reading store.
const (
	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = 30 * time.Second
)

// MetricMirror receives numeric metric values for time-series mirroring.
// This interface is satisfied by *influxdb.Client.
type MetricMirror interface {
	WriteDeviceMetric(deviceID string, metric string, value float64)
}

// SnapshotWriter persists full-state snapshots after accepted merges.
//
// Writes are fire-and-forget relative to the ingestion loop: a persistence
// failure is logged and reported but never rolls back the cache. A circuit
// breaker around the reading store stops hammering SQLite while it is
// failing; snapshots written during an open breaker are lost, which is
// acceptable since the next successful write carries the full state anyway.
type SnapshotWriter struct {
	store   reading.Store
	mirror  MetricMirror
	breaker *gobreaker.CircuitBreaker
	logger  Logger
}

// NewSnapshotWriter creates a snapshot writer for the given store.
func NewSnapshotWriter(store reading.Store) *SnapshotWriter {
	w := &SnapshotWriter{
		store:  store,
		logger: noopLogger{},
	}

	w.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "reading-store",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		Timeout: breakerOpenTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			w.logger.Warn("reading store breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return w
}

// SetMirror sets an optional time-series mirror for numeric metrics.
func (w *SnapshotWriter) SetMirror(mirror MetricMirror) {
	w.mirror = mirror
}

// SetLogger sets the logger for the writer.
func (w *SnapshotWriter) SetLogger(logger Logger) {
	w.logger = logger
}

// Write persists the full merged state as a new reading and mirrors the
// freshly merged metric to the time-series store when it is numeric.
//
// The reading write failure is returned so the caller can count it; the
// mirror write is non-blocking and never fails the call.
func (w *SnapshotWriter) Write(ctx context.Context, deviceID string, state device.State, metric string, value any) error {
	_, err := w.breaker.Execute(func() (any, error) {
		return nil, w.store.Append(ctx, deviceID, state, reading.SourceMQTT)
	})
	if err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	if w.mirror != nil {
		switch v := value.(type) {
		case float64:
			w.mirror.WriteDeviceMetric(deviceID, metric, v)
		case int:
			w.mirror.WriteDeviceMetric(deviceID, metric, float64(v))
		}
	}

	return nil
}
