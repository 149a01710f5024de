package device

import (
	"context"
	"fmt"
)

// Resolver maps parsed telemetry scopes to devices.
//
// Device-specific telemetry carries a scope of root/device-id and resolves
// by exact base-topic match against device configuration. Type-wide
// telemetry names only a topic root; the resolver maps the root to its
// configured singleton type and requires exactly one active device of
// that type.
//
// Ambiguity always resolves to an error rather than a default pick.
type Resolver struct {
	dir        *Directory
	singletons map[string]DeviceType // topic root -> device type
}

// NewResolver creates a resolver backed by the given directory.
//
// Parameters:
//   - dir: Directory used for lookups
//   - singletons: Topic root to device type mapping for type-wide telemetry
//
// Returns:
//   - *Resolver: Resolver ready for use
func NewResolver(dir *Directory, singletons map[string]DeviceType) *Resolver {
	if singletons == nil {
		singletons = make(map[string]DeviceType)
	}
	return &Resolver{dir: dir, singletons: singletons}
}

// ResolveScope resolves a device-specific telemetry scope (root/device-id)
// by exact base-topic equality against active device configuration.
//
// Returns ErrDeviceNotFound when no active device declares the scope as its
// base topic, and ErrDeviceAmbiguous when more than one does.
func (r *Resolver) ResolveScope(ctx context.Context, scope string) (*Device, error) {
	return r.dir.FindByBaseTopic(ctx, scope)
}

// ResolveSingleton resolves a type-wide telemetry scope by topic root.
//
// Returns ErrDeviceNotFound when the root has no configured type or no
// active device of the type exists, and ErrDeviceAmbiguous when more than
// one active device matches.
func (r *Resolver) ResolveSingleton(ctx context.Context, root string) (*Device, error) {
	deviceType, ok := r.singletons[root]
	if !ok {
		return nil, fmt.Errorf("%w: no device type configured for root %q", ErrDeviceNotFound, root)
	}

	devices, err := r.dir.ListByType(ctx, deviceType, true)
	if err != nil {
		return nil, err
	}

	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("%w: no active %s device", ErrDeviceNotFound, deviceType)
	case 1:
		return &devices[0], nil
	default:
		return nil, fmt.Errorf("%w: %d active %s devices", ErrDeviceAmbiguous, len(devices), deviceType)
	}
}
