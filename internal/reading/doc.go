// Package reading provides the persistent snapshot log for Brume Core.
//
// Every accepted telemetry merge appends one row to the readings table,
// carrying the device's full merged state as JSON. The log is append-only;
// a background pruner enforces the retention window.
//
// # Usage
//
//	store := reading.NewSQLiteStore(db)
//
//	// Persist a snapshot after a merge
//	err := store.Append(ctx, dev.ID, mergedState, reading.SourceMQTT)
//
//	// Query recent snapshots
//	latest, err := store.Latest(ctx, dev.ID, 10)
//
//	// Retention
//	pruner := reading.NewPruner(store, cfg.Readings.ReadingRetention(), time.Hour)
//	go pruner.Run(ctx)
package reading
