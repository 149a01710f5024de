// Package bridge owns the broker connection for Brume Core.
//
// It connects with bounded exponential backoff, subscribes one wildcard
// per configured telemetry root, and routes every inbound message into
// the ingestion pipeline. Outbound command publishes go through the same
// transport, so the bridge doubles as the command dispatcher's Publisher.
//
// Subscription restoration on reconnect lives in the MQTT client itself;
// the bridge subscribes exactly once at Start.
//
// # Usage
//
//	client, err := bridge.Connect(cfg, log)
//	if err != nil {
//	    return err
//	}
//
//	br, err := bridge.New(bridge.Options{
//	    Transport: client,
//	    Sink:      pipeline,
//	    Roots:     roots,
//	    QoS:       byte(cfg.MQTT.QoS),
//	    Logger:    log,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := br.Start(); err != nil {
//	    return err
//	}
//	defer br.Close()
package bridge
