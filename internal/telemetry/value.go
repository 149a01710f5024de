package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Known metric names. Telemetry on any other metric is dropped without error.
const (
	MetricHumidity       = "humidity"
	MetricStatus         = "status"
	MetricPowerLevel     = "power-level"
	MetricConfigSnapshot = "config-snapshot"
)

// Normalised status labels for boolean-ish firmware tokens.
const (
	StatusOn  = "on"
	StatusOff = "off"
)

// ParseValue converts a raw metric payload into its typed value.
//
// Per-metric rules:
//   - humidity: decimal number, comma or dot as decimal separator
//   - status: "0"/"1" normalised to off/on, any other string kept verbatim
//   - power-level: integer
//   - config-snapshot: JSON object
//
// Returns ErrValueRejected for malformed payloads and ErrUnknownMetric for
// unrecognised metric names.
func ParseValue(metric string, payload []byte) (any, error) {
	raw := strings.TrimSpace(string(payload))

	switch metric {
	case MetricHumidity:
		// Some firmware reports decimals with a comma separator
		normalised := strings.Replace(raw, ",", ".", 1)
		value, err := strconv.ParseFloat(normalised, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: humidity %q is not numeric", ErrValueRejected, raw)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: humidity %q is not finite", ErrValueRejected, raw)
		}
		return value, nil

	case MetricStatus:
		switch raw {
		case "0":
			return StatusOff, nil
		case "1":
			return StatusOn, nil
		default:
			// Free-form status text is stored verbatim
			return raw, nil
		}

	case MetricPowerLevel:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: power-level %q is not an integer", ErrValueRejected, raw)
		}
		return value, nil

	case MetricConfigSnapshot:
		var snapshot map[string]any
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, fmt.Errorf("%w: config-snapshot is not a JSON object", ErrValueRejected)
		}
		return snapshot, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}
