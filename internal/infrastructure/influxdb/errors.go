package influxdb

import "errors"

// Sentinel errors for the mirror connection; check with errors.Is.
var (
	// ErrNotConnected is returned by HealthCheck on a closed client.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed is returned when the initial ping fails.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled is returned by Connect when the mirror is switched off
	// in config.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
