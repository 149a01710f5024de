package telemetry

import "errors"

// Domain errors for the telemetry package.
var (
	// ErrValueRejected is returned when a metric payload fails parsing or
	// validation. The device's prior state for that metric is kept.
	ErrValueRejected = errors.New("telemetry: value rejected")

	// ErrUnknownMetric is returned for metric names the pipeline does not
	// recognise. Unknown metrics are tolerated and dropped without error.
	ErrUnknownMetric = errors.New("telemetry: unknown metric")
)
