package device

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Directory.
// This allows different logging implementations to be used.
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

// Directory provides device lookups with caching and thread safety.
// It wraps a Repository and adds an in-memory cache so the telemetry hot
// path never waits on SQLite.
//
// The cache is populated on startup via Refresh() and kept in sync by the
// CRUD operations.
//
// All public methods are thread-safe.
type Directory struct {
	repo    Repository
	cache   map[string]*Device // Cached devices by ID
	cacheMu sync.RWMutex       // Protects cache
	logger  Logger
}

// NewDirectory creates a new device directory.
// The repository is used for persistence; the directory adds caching.
func NewDirectory(repo Repository) *Directory {
	return &Directory{
		repo:   repo,
		cache:  make(map[string]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the directory.
func (d *Directory) SetLogger(logger Logger) {
	d.logger = logger
}

// Refresh reloads all devices from the repository into the cache.
// This should be called on application startup.
func (d *Directory) Refresh(ctx context.Context) error {
	devices, err := d.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	// Clear and rebuild cache with deep copies
	d.cache = make(map[string]*Device, len(devices))
	for i := range devices {
		dev := devices[i]
		d.cache[dev.ID] = dev.DeepCopy()
	}

	d.logger.Info("device cache refreshed", "count", len(devices))
	return nil
}

// GetDevice retrieves a device by ID.
// Returns ErrDeviceNotFound if the device does not exist.
// The returned device is a deep copy; callers can safely modify it.
func (d *Directory) GetDevice(ctx context.Context, id string) (*Device, error) {
	// Try cache first
	d.cacheMu.RLock()
	cached, ok := d.cache[id]
	d.cacheMu.RUnlock()

	if ok {
		// Return a deep copy to prevent external mutation of cache
		return cached.DeepCopy(), nil
	}

	// Fall back to repository (might be a new device not yet cached)
	dev, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache for future lookups (store a deep copy)
	d.cacheMu.Lock()
	d.cache[dev.ID] = dev.DeepCopy()
	d.cacheMu.Unlock()

	return dev, nil
}

// ListDevices retrieves all devices.
// The returned devices are deep copies; callers can safely modify them.
func (d *Directory) ListDevices(ctx context.Context) ([]Device, error) {
	d.cacheMu.RLock()
	defer d.cacheMu.RUnlock()

	// Return from cache if populated
	if len(d.cache) > 0 {
		devices := make([]Device, 0, len(d.cache))
		for _, dev := range d.cache {
			devices = append(devices, *dev.DeepCopy())
		}
		return devices, nil
	}

	// Fall back to repository
	return d.repo.List(ctx)
}

// ListByType retrieves devices of a specific type.
// When activeOnly is true, deactivated devices are excluded.
// The returned devices are deep copies; callers can safely modify them.
func (d *Directory) ListByType(ctx context.Context, deviceType DeviceType, activeOnly bool) ([]Device, error) {
	d.cacheMu.RLock()
	defer d.cacheMu.RUnlock()

	// Filter from cache if populated
	if len(d.cache) > 0 {
		var devices []Device
		for _, dev := range d.cache {
			if dev.Type != deviceType {
				continue
			}
			if activeOnly && !dev.Active {
				continue
			}
			devices = append(devices, *dev.DeepCopy())
		}
		return devices, nil
	}

	return d.repo.ListByType(ctx, deviceType, activeOnly)
}

// FindByBaseTopic returns the unique active device whose configured base
// topic equals topic exactly. Matching is string equality, no normalisation.
//
// Returns ErrDeviceNotFound when no active device matches and
// ErrDeviceAmbiguous when more than one does.
func (d *Directory) FindByBaseTopic(ctx context.Context, topic string) (*Device, error) {
	devices, err := d.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*Device
	for i := range devices {
		dev := &devices[i]
		if !dev.Active {
			continue
		}
		if dev.Config.BaseTopic() == topic {
			matches = append(matches, dev)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no active device with base topic %q", ErrDeviceNotFound, topic)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %d active devices share base topic %q", ErrDeviceAmbiguous, len(matches), topic)
	}
}

// CreateDevice validates and persists a new device, then caches it.
// An empty ID is filled with a generated UUID.
func (d *Directory) CreateDevice(ctx context.Context, dev *Device) error {
	if dev != nil && dev.ID == "" {
		dev.ID = GenerateID()
	}

	if err := ValidateDevice(dev); err != nil {
		return err
	}

	if err := d.repo.Create(ctx, dev); err != nil {
		return err
	}

	d.cacheMu.Lock()
	d.cache[dev.ID] = dev.DeepCopy()
	d.cacheMu.Unlock()

	d.logger.Info("device created", "device_id", dev.ID, "type", string(dev.Type))
	return nil
}

// UpdateDevice validates and persists changes to an existing device,
// then updates the cache.
func (d *Directory) UpdateDevice(ctx context.Context, dev *Device) error {
	if err := ValidateDevice(dev); err != nil {
		return err
	}

	if err := d.repo.Update(ctx, dev); err != nil {
		return err
	}

	d.cacheMu.Lock()
	d.cache[dev.ID] = dev.DeepCopy()
	d.cacheMu.Unlock()

	d.logger.Debug("device updated", "device_id", dev.ID)
	return nil
}

// DeleteDevice deactivates a device and updates the cache entry so the
// device stops resolving immediately.
func (d *Directory) DeleteDevice(ctx context.Context, id string) error {
	if err := d.repo.Delete(ctx, id); err != nil {
		return err
	}

	d.cacheMu.Lock()
	if cached, ok := d.cache[id]; ok {
		cached.Active = false
	}
	d.cacheMu.Unlock()

	d.logger.Info("device deactivated", "device_id", id)
	return nil
}
