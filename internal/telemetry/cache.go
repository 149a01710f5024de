package telemetry

import (
	"sync"

	"github.com/brumelab/brume-core/internal/device"
)

// StateCache holds the last known state of every device seen on the bus.
//
// Mutations are serialised per device: each device has its own lock, so
// merges for different devices never contend while merges for the same
// device apply in call order. Reporting-style reads via Snapshot are safe
// to call concurrently with merges.
type StateCache struct {
	mu      sync.Mutex // protects the entries map, not the states
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu    sync.Mutex
	state device.State
}

// NewStateCache creates an empty state cache.
func NewStateCache() *StateCache {
	return &StateCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Merge parses the payload for the given metric and overwrites that single
// key in the device's cached state. All other previously known metrics are
// retained, so the returned state always reflects the fullest known state.
//
// Any value the metric parser accepts is stored; a rejected payload keeps
// the prior state and the error wraps ErrValueRejected (or ErrUnknownMetric
// for unrecognised metric names).
//
// Returns an independent copy of the full merged state.
func (c *StateCache) Merge(dev *device.Device, metric string, payload []byte) (device.State, error) {
	value, err := ParseValue(metric, payload)
	if err != nil {
		return nil, err
	}

	entry := c.entry(dev.ID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.state[metric] = value
	return copyState(entry.state), nil
}

// Snapshot returns an independent copy of the device's cached state.
// The second return value is false when the device has no cached state.
func (c *StateCache) Snapshot(deviceID string) (device.State, bool) {
	c.mu.Lock()
	entry, ok := c.entries[deviceID]
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copyState(entry.state), true
}

// entry returns the cache entry for a device, creating it if needed.
func (c *StateCache) entry(deviceID string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[deviceID]
	if !ok {
		entry = &cacheEntry{state: make(device.State)}
		c.entries[deviceID] = entry
	}
	return entry
}

// copyState clones a state map one level deep plus nested structures.
func copyState(state device.State) device.State {
	cpy := make(device.State, len(state))
	for k, v := range state {
		cpy[k] = copyValue(v)
	}
	return cpy
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		cpy := make(map[string]any, len(val))
		for k, nested := range val {
			cpy[k] = copyValue(nested)
		}
		return cpy
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = copyValue(elem)
		}
		return cpy
	default:
		return val
	}
}
