package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the devices table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Create devices table matching the schema
	schema := `
		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE INDEX idx_devices_type ON devices(type);
		CREATE INDEX idx_devices_active ON devices(active);
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

// testDevice creates a device for testing.
func testDevice(id, name string) *Device {
	return &Device{
		ID:     id,
		Name:   name,
		Type:   TypeSmartPlug,
		Config: Config{},
		Active: true,
	}
}

func TestSQLiteRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("creates device successfully", func(t *testing.T) {
		dev := testDevice("dev-001", "Bedroom Plug")

		err := repo.Create(ctx, dev)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID(ctx, "dev-001")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "Bedroom Plug" {
			t.Errorf("Name = %q, want %q", got.Name, "Bedroom Plug")
		}
		if got.Type != TypeSmartPlug {
			t.Errorf("Type = %q, want %q", got.Type, TypeSmartPlug)
		}
		if !got.Active {
			t.Error("Active = false, want true")
		}
	})

	t.Run("returns error for duplicate ID", func(t *testing.T) {
		dev := testDevice("dev-duplicate", "First Device")
		if err := repo.Create(ctx, dev); err != nil {
			t.Fatalf("first Create() error = %v", err)
		}

		dev2 := testDevice("dev-duplicate", "Second Device")
		err := repo.Create(ctx, dev2)
		if !errors.Is(err, ErrDeviceExists) {
			t.Errorf("Create() error = %v, want ErrDeviceExists", err)
		}
	})

	t.Run("round-trips config JSON", func(t *testing.T) {
		dev := testDevice("dev-config", "Configured Plug")
		dev.Config = Config{
			"mqtt": map[string]any{"base_topic": "acme/smart-plug/dev-config"},
		}

		if err := repo.Create(ctx, dev); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID(ctx, "dev-config")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Config.BaseTopic() != "acme/smart-plug/dev-config" {
			t.Errorf("BaseTopic() = %q, want %q", got.Config.BaseTopic(), "acme/smart-plug/dev-config")
		}
	})
}

func TestSQLiteRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Zed Plug", "Alpha Plug"} {
		dev := testDevice("dev-"+name, name)
		if err := repo.Create(ctx, dev); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	devices, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("List() returned %d devices, want 2", len(devices))
	}
	// Ordered by name
	if devices[0].Name != "Alpha Plug" {
		t.Errorf("first device = %q, want %q", devices[0].Name, "Alpha Plug")
	}
}

func TestSQLiteRepository_ListByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	plug := testDevice("plug-01", "Plug")
	if err := repo.Create(ctx, plug); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	hum := testDevice("hum-01", "Humidifier")
	hum.Type = TypeHumidifier3Power
	if err := repo.Create(ctx, hum); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inactive := testDevice("hum-02", "Old Humidifier")
	inactive.Type = TypeHumidifier3Power
	inactive.Active = false
	if err := repo.Create(ctx, inactive); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("all devices of type", func(t *testing.T) {
		devices, err := repo.ListByType(ctx, TypeHumidifier3Power, false)
		if err != nil {
			t.Fatalf("ListByType() error = %v", err)
		}
		if len(devices) != 2 {
			t.Errorf("ListByType() returned %d devices, want 2", len(devices))
		}
	})

	t.Run("active only", func(t *testing.T) {
		devices, err := repo.ListByType(ctx, TypeHumidifier3Power, true)
		if err != nil {
			t.Fatalf("ListByType() error = %v", err)
		}
		if len(devices) != 1 {
			t.Fatalf("ListByType() returned %d devices, want 1", len(devices))
		}
		if devices[0].ID != "hum-01" {
			t.Errorf("device ID = %q, want %q", devices[0].ID, "hum-01")
		}
	})
}

func TestSQLiteRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	dev := testDevice("dev-update", "Before")
	if err := repo.Create(ctx, dev); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dev.Name = "After"
	dev.Config = Config{"mqtt": map[string]any{"command_topic": "acme/smart-plug/dev-update/cmd"}}
	if err := repo.Update(ctx, dev); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "dev-update")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "After" {
		t.Errorf("Name = %q, want %q", got.Name, "After")
	}
	if got.Config.CommandTopic() != "acme/smart-plug/dev-update/cmd" {
		t.Errorf("CommandTopic() = %q", got.Config.CommandTopic())
	}

	t.Run("returns error for missing device", func(t *testing.T) {
		missing := testDevice("missing", "Missing")
		err := repo.Update(ctx, missing)
		if !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("Update() error = %v, want ErrDeviceNotFound", err)
		}
	})
}

func TestSQLiteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	dev := testDevice("dev-delete", "Doomed Plug")
	if err := repo.Create(ctx, dev); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "dev-delete"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Soft delete: row survives, active flag cleared
	got, err := repo.GetByID(ctx, "dev-delete")
	if err != nil {
		t.Fatalf("GetByID() after delete error = %v", err)
	}
	if got.Active {
		t.Error("Active = true after Delete(), want false")
	}

	t.Run("returns error for missing device", func(t *testing.T) {
		err := repo.Delete(ctx, "never-existed")
		if !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("Delete() error = %v, want ErrDeviceNotFound", err)
		}
	})
}
