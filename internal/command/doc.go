// Package command implements the outbound command path for Brume Core,
// the inverse direction of telemetry ingestion.
//
// An abstract action ("turn-on", "level-2") is translated into the exact
// wire token a device's firmware expects and published to the device's
// command topic. Topic derivation walks the device config in priority
// order (explicit command topic, legacy flat key, base topic + suffix)
// before falling back to the type-wide default for singleton types.
//
// # Usage
//
//	translator := command.NewTranslator(map[string]device.DeviceType{
//	    "acme/humidifier": device.TypeHumidifier3Power,
//	})
//
//	dispatcher, err := command.NewDispatcher(command.DispatcherOptions{
//	    Translator: translator,
//	    Devices:    dir,
//	    Publisher:  mqttClient,
//	    QoS:        1,
//	    Counters:   counters,
//	    Logger:     log,
//	})
//
//	dispatch, err := dispatcher.Dispatch(ctx, "plug-01", command.ActionTurnOn)
//
// Errors are returned to the caller, not logged as system faults: an
// unsupported action or missing topic configuration is user-correctable
// input, and a publish failure is a best-effort transport attempt.
package command
