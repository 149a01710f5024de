package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/infrastructure/metrics"
)

// Logger defines the logging interface used by the Dispatcher.
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

// Publisher publishes messages to the broker.
// This interface is satisfied by the MQTT client and by the bridge.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// DeviceLookup fetches devices by ID.
// This interface is satisfied by *device.Directory.
type DeviceLookup interface {
	GetDevice(ctx context.Context, id string) (*device.Device, error)
}

// Dispatcher is the command entry point exposed to API collaborators.
// It resolves the device, translates the action, and publishes the result.
//
// Dispatch is safe to call concurrently with the telemetry receive loop;
// the underlying MQTT client serialises publishes internally.
type Dispatcher struct {
	translator *Translator
	devices    DeviceLookup
	publisher  Publisher
	qos        byte
	counters   *metrics.Pipeline
	logger     Logger
}

// DispatcherOptions holds dependencies for creating a dispatcher.
type DispatcherOptions struct {
	// Translator maps actions to dispatches.
	Translator *Translator

	// Devices resolves command targets.
	Devices DeviceLookup

	// Publisher delivers dispatches to the broker.
	Publisher Publisher

	// QoS is the quality of service level for command publishes.
	QoS byte

	// Counters instruments dispatch outcomes.
	Counters *metrics.Pipeline

	// Logger is optional structured logging.
	Logger Logger
}

// NewDispatcher creates a command dispatcher.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	if opts.Devices == nil {
		return nil, fmt.Errorf("device lookup is required")
	}
	if opts.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if opts.Counters == nil {
		return nil, fmt.Errorf("counters are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Dispatcher{
		translator: opts.Translator,
		devices:    opts.Devices,
		publisher:  opts.Publisher,
		qos:        opts.QoS,
		counters:   opts.Counters,
		logger:     logger,
	}, nil
}

// Dispatch translates and publishes a command for a device.
//
// The returned Dispatch reports what was sent. Errors distinguish an
// invalid target (unknown or unconfigured device), an unsupported action
// for the device type, and a transport failure on publish; they are
// returned to the caller rather than logged as system faults.
func (d *Dispatcher) Dispatch(ctx context.Context, deviceID, action string) (Dispatch, error) {
	dev, err := d.devices.GetDevice(ctx, deviceID)
	if err != nil {
		d.counters.CommandFailures.WithLabelValues(metrics.ReasonInvalid).Inc()
		return Dispatch{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if !dev.Active {
		d.counters.CommandFailures.WithLabelValues(metrics.ReasonInvalid).Inc()
		return Dispatch{}, fmt.Errorf("%w: device %s is deactivated", ErrInvalid, deviceID)
	}

	dispatch, err := d.translator.Translate(dev, action)
	if err != nil {
		reason := metrics.ReasonInvalid
		if errors.Is(err, ErrUnsupported) {
			reason = metrics.ReasonUnsupported
		}
		d.counters.CommandFailures.WithLabelValues(reason).Inc()
		return Dispatch{}, err
	}

	if err := d.publisher.Publish(dispatch.Topic, []byte(dispatch.Payload), d.qos, false); err != nil {
		d.counters.CommandFailures.WithLabelValues(metrics.ReasonTransport).Inc()
		return Dispatch{}, fmt.Errorf("%w: %s", ErrTransportFailure, err)
	}

	d.counters.CommandsDispatched.Inc()
	d.logger.Info("command dispatched",
		"device_id", deviceID, "action", action, "topic", dispatch.Topic)

	return dispatch, nil
}
