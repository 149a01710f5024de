// Package mqtt wraps the paho client for the broker connection between
// device firmwares and the ingestion pipeline.
//
//	Device firmware <-> MQTT broker <-> bridge -> pipeline
//
// The client tracks its subscriptions and replays them on every reconnect,
// so the bridge subscribes once at startup and ignores connection churn.
// A retained status message plus an LWT on brume/system/status lets peers
// distinguish a graceful shutdown from a crash.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.TelemetryWildcard("acme/humidifier"), 1,
//	    func(topic string, payload []byte) error {
//	        // dispatch into the pipeline
//	        return nil
//	    })
//
//	client.Publish(mqtt.Topics{}.DefaultCommand("acme/humidifier"), []byte("ativar"), 1, false)
//
// TLS with broker credentials is expected outside local development;
// payloads are plaintext beyond the transport.
package mqtt
