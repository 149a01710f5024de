// Package device provides the device directory for Brume Core.
//
// The directory is the catalogue of physical devices the bridge knows
// about. It manages device lifecycle and resolution of telemetry topics
// to concrete devices.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────────┐
//	│                          Device Directory                                │
//	│                                                                          │
//	│  ┌──────────────────┐    ┌──────────────────┐    ┌──────────────────┐   │
//	│  │    Directory     │    │    Repository    │    │     Resolver     │   │
//	│  │  (directory.go)  │───▶│  (repository.go) │    │  (resolver.go)   │   │
//	│  │                  │    │                  │    │                  │   │
//	│  │ • CRUD ops       │    │ • SQLite queries │    │ • By base topic  │   │
//	│  │ • In-memory cache│    │ • JSON config    │    │ • Singleton by   │   │
//	│  │ • Thread safety  │    │ • Soft delete    │    │   topic root     │   │
//	│  └──────────────────┘    └──────────────────┘    └──────────────────┘   │
//	│                                   │                                      │
//	└───────────────────────────────────│──────────────────────────────────────┘
//	                                    ▼
//	                         ┌──────────────────────┐
//	                         │   SQLite Database    │
//	                         │   (devices table)    │
//	                         └──────────────────────┘
//
// # Key Types
//
//   - Device: A physical device (identity, type, config, active flag)
//   - DeviceType: Firmware family (smart-plug, humidifier-3-power)
//   - Config: Free-form JSON config with typed accessors (command topic,
//     humidity bounds)
//
// # Usage
//
//	// Create repository and directory
//	repo := device.NewSQLiteRepository(db)
//	dir := device.NewDirectory(repo)
//	dir.SetLogger(log)
//
//	// Load devices into cache on startup
//	if err := dir.Refresh(ctx); err != nil {
//	    return err
//	}
//
//	// Create a new device
//	dev := &device.Device{
//	    Name:   "Bedroom Humidifier",
//	    Type:   device.TypeHumidifier3Power,
//	    Active: true,
//	    Config: device.Config{"mqtt": map[string]any{"base_topic": "acme/humidifier/hum-01"}},
//	}
//	if err := dir.CreateDevice(ctx, dev); err != nil {
//	    return err
//	}
//
//	// Resolve telemetry to a device
//	resolver := device.NewResolver(dir, map[string]device.DeviceType{
//	    "acme/humidifier": device.TypeHumidifier3Power,
//	})
//	dev, err := resolver.ResolveSingleton(ctx, "acme/humidifier")
//
// # Thread Safety
//
// The Directory is safe for concurrent use. All operations are protected by
// a read-write mutex. The Repository implementation must also be thread-safe.
package device
