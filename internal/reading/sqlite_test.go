package reading

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brumelab/brume-core/internal/device"
)

// setupTestDB creates an in-memory SQLite database with the readings table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE readings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			state TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'mqtt',
			created_at TEXT NOT NULL
		);
		CREATE INDEX idx_readings_device_time ON readings(device_id, created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteStore_Append(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	state := device.State{"status": "on", "power-level": 2}
	if err := store.Append(ctx, "hum-01", state, SourceMQTT); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	readings, err := store.Latest(ctx, "hum-01", 10)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("Latest() returned %d readings, want 1", len(readings))
	}

	got := readings[0]
	if got.DeviceID != "hum-01" {
		t.Errorf("DeviceID = %q, want %q", got.DeviceID, "hum-01")
	}
	if got.Source != SourceMQTT {
		t.Errorf("Source = %q, want %q", got.Source, SourceMQTT)
	}
	if got.State["status"] != "on" {
		t.Errorf("State[status] = %v, want %q", got.State["status"], "on")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestSQLiteStore_Append_Defaults(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	t.Run("empty device id rejected", func(t *testing.T) {
		if err := store.Append(ctx, "", device.State{}, SourceMQTT); err == nil {
			t.Error("Append() with empty device id should fail")
		}
	})

	t.Run("empty source defaults to mqtt", func(t *testing.T) {
		if err := store.Append(ctx, "plug-01", device.State{"status": "off"}, ""); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		readings, err := store.Latest(ctx, "plug-01", 1)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if readings[0].Source != SourceMQTT {
			t.Errorf("Source = %q, want %q", readings[0].Source, SourceMQTT)
		}
	})

	t.Run("nil state stored as empty object", func(t *testing.T) {
		if err := store.Append(ctx, "plug-02", nil, SourceMQTT); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		readings, err := store.Latest(ctx, "plug-02", 1)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if readings[0].State == nil {
			t.Error("State = nil, want empty map")
		}
	})
}

func TestSQLiteStore_Latest_Ordering(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	for i, level := range []int{1, 2, 3} {
		state := device.State{"power-level": level}
		if err := store.Append(ctx, "hum-01", state, SourceMQTT); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	readings, err := store.Latest(ctx, "hum-01", 2)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("Latest() returned %d readings, want 2", len(readings))
	}

	// Newest first: last appended level is 3
	if got := readings[0].State["power-level"]; got != float64(3) {
		t.Errorf("newest power-level = %v, want 3", got)
	}
}

func TestSQLiteStore_Latest_ScopedToDevice(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if err := store.Append(ctx, "hum-01", device.State{"humidity": 48.5}, SourceMQTT); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "plug-01", device.State{"status": "on"}, SourceMQTT); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	readings, err := store.Latest(ctx, "hum-01", 10)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("Latest() returned %d readings, want 1", len(readings))
	}
	if readings[0].DeviceID != "hum-01" {
		t.Errorf("DeviceID = %q, want %q", readings[0].DeviceID, "hum-01")
	}
}

func TestSQLiteStore_Prune(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	// Insert an old row directly with a timestamp outside the window
	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(
		"INSERT INTO readings (device_id, state, source, created_at) VALUES (?, ?, ?, ?)",
		"hum-01", `{"humidity":40}`, SourceMQTT, old,
	); err != nil {
		t.Fatalf("inserting old reading: %v", err)
	}

	if err := store.Append(ctx, "hum-01", device.State{"humidity": 50.0}, SourceMQTT); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	deleted, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d rows, want 1", deleted)
	}

	readings, err := store.Latest(ctx, "hum-01", 10)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(readings) != 1 {
		t.Errorf("Latest() returned %d readings after prune, want 1", len(readings))
	}

	t.Run("non-positive retention rejected", func(t *testing.T) {
		if _, err := store.Prune(ctx, 0); err == nil {
			t.Error("Prune(0) should fail")
		}
	})
}
