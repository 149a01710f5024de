// Package influxdb mirrors numeric telemetry into time-series storage.
//
// The snapshot writer hands every numeric metric from an accepted merge to
// WriteDeviceMetric; points are batched and written asynchronously so the
// mirror never blocks ingestion. SQLite holds the canonical snapshots, the
// mirror exists for dashboards querying history.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SetOnError(func(err error) {
//	    log.Error("influxdb write error", "error", err)
//	})
//
//	client.WriteDeviceMetric("3f2a-...", "humidity", 63.5)
//
// Batch size and flush interval come from config.yaml. Asynchronous batch
// failures are reported through the SetOnError callback; there is no
// per-point error path.
package influxdb
