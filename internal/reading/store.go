package reading

import (
	"context"
	"time"

	"github.com/brumelab/brume-core/internal/device"
)

// Reading source values.
const (
	SourceMQTT    = "mqtt"
	SourceCommand = "command"
)

// Reading represents a single persisted state snapshot.
//
// Each reading stores the device's full merged state at the time the
// telemetry was accepted, not just the metric that changed. This keeps
// every row independently usable for audit and replay.
type Reading struct {
	// ID is the auto-incremented primary key for the reading row.
	ID int64 `json:"id"`

	// DeviceID is the unique identifier of the device.
	DeviceID string `json:"device_id"`

	// State is the JSON snapshot of the full device state.
	State device.State `json:"state"`

	// Source identifies how the reading was recorded (mqtt, command).
	Source string `json:"source"`

	// CreatedAt is the timestamp of the snapshot (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves device state snapshots.
//
// Implementations must be thread-safe and use UTC timestamps.
type Store interface {
	// Append records a state snapshot for a device.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - deviceID: Unique device identifier
	//   - state: Full merged state to persist
	//   - source: Origin of the snapshot (mqtt, command)
	//
	// Returns:
	//   - error: nil on success, otherwise the underlying persistence error
	Append(ctx context.Context, deviceID string, state device.State, source string) error

	// Latest returns recent readings for the device.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - deviceID: Unique device identifier
	//   - limit: Maximum readings to return (implementation may clamp bounds)
	//
	// Returns:
	//   - []Reading: Ordered newest-first readings (may be empty)
	//   - error: nil on success, otherwise the underlying query error
	Latest(ctx context.Context, deviceID string, limit int) ([]Reading, error)

	// Prune deletes readings older than the given duration.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - olderThan: Retention window (readings older than now-olderThan are deleted)
	//
	// Returns:
	//   - int64: Number of rows deleted
	//   - error: nil on success, otherwise the underlying database error
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
