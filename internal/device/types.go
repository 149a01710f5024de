package device

import "time"

// DeviceType identifies the firmware family a device belongs to. The type
// drives command translation and determines which telemetry metrics are
// expected from the device.
type DeviceType string

// Supported device types.
const (
	// TypeSmartPlug is a single-relay mains switch reporting on/off status.
	TypeSmartPlug DeviceType = "smart-plug"

	// TypeHumidifier3Power is a humidifier with three discrete power levels
	// reporting humidity, power level and configuration snapshots.
	TypeHumidifier3Power DeviceType = "humidifier-3-power"
)

// AllDeviceTypes returns every supported device type.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{TypeSmartPlug, TypeHumidifier3Power}
}

// Config holds per-device configuration as a free-form JSON object.
// Typed access goes through the accessor methods in config.go.
type Config map[string]any

// State holds the last known device state as metric name -> value pairs.
type State map[string]any

// Device represents a physical device known to the bridge.
type Device struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Classification
	Type DeviceType `json:"type"`

	// Per-device configuration (command topics, humidity bounds, ...)
	Config Config `json:"config"`

	// Active marks whether the device participates in resolution.
	// Deactivated devices are kept for history but never resolved.
	Active bool `json:"active"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy creates a complete independent copy of the Device.
// The config map is cloned so modifications to the copy do not affect
// the original. This is essential for cache isolation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d // Shallow copy of value fields
	cpy.Config = deepCopyMap(d.Config)

	return &cpy
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, int, float64, etc.) are safe to copy by value
		return val
	}
}
