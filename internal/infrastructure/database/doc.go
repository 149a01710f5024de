// Package database owns the SQLite connection backing the device directory
// and the reading store.
//
// The database is a single file opened with WAL journaling and a busy
// timeout, the configuration SQLite wants for one writing process with
// concurrent readers. The connection pool is pinned to a single connection;
// the ingestion pipeline is the only writer and serialises its own work.
//
// Schema changes ship as embedded, forward-only migration files applied on
// startup. Each migration runs in its own transaction and is recorded in
// schema_migrations, so a failed migration rolls back alone and a restart
// resumes from where it stopped.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "data/brume.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
