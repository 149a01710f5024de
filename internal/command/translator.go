package command

import (
	"fmt"

	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
)

// Dispatch is a translated command ready for publishing.
type Dispatch struct {
	// Topic is the derived command topic for the target device.
	Topic string

	// Payload is the wire token the device firmware expects.
	Payload string
}

// Translator maps (device, abstract action) pairs to wire-level dispatches,
// the inverse direction of telemetry ingestion.
//
// Topic derivation walks the device config priority chain (explicit command
// topic, legacy flat key, base topic plus suffix) and falls back to the
// type's well-known default topic when the type is a fixed-topic singleton.
type Translator struct {
	actions       map[device.DeviceType]map[string]string
	defaultTopics map[device.DeviceType]string // singleton type -> constant topic
}

// NewTranslator creates a translator with the built-in action tables.
//
// Parameters:
//   - singletons: Telemetry root -> singleton device type policy table, the
//     same table the resolver uses. Each entry yields the type's well-known
//     command topic, used when a device's config derives no topic of its own
//
// Returns:
//   - *Translator: Translator ready for use
func NewTranslator(singletons map[string]device.DeviceType) *Translator {
	var topics mqtt.Topics
	defaultTopics := make(map[device.DeviceType]string, len(singletons))
	for root, deviceType := range singletons {
		defaultTopics[deviceType] = topics.DefaultCommand(root)
	}
	return &Translator{
		actions:       builtinActions(),
		defaultTopics: defaultTopics,
	}
}

// RegisterActions adds or replaces the action table for a device type.
// This keeps the vocabulary extensible as new firmware families appear.
func (t *Translator) RegisterActions(deviceType device.DeviceType, actions map[string]string) {
	table := make(map[string]string, len(actions))
	for action, token := range actions {
		table[action] = token
	}
	t.actions[deviceType] = table
}

// Translate derives the command topic and wire payload for an action.
//
// Returns ErrUnsupported when the action is outside the device type's
// accepted set, and ErrInvalid when no command topic can be derived.
func (t *Translator) Translate(dev *device.Device, action string) (Dispatch, error) {
	table, ok := t.actions[dev.Type]
	if !ok {
		return Dispatch{}, fmt.Errorf("%w: no actions defined for type %q", ErrUnsupported, dev.Type)
	}

	token, ok := table[action]
	if !ok {
		return Dispatch{}, fmt.Errorf("%w: %q is not valid for type %q", ErrUnsupported, action, dev.Type)
	}

	topic := t.commandTopic(dev)
	if topic == "" {
		return Dispatch{}, fmt.Errorf("%w: device %s has no command topic configured", ErrInvalid, dev.ID)
	}

	return Dispatch{Topic: topic, Payload: token}, nil
}

// commandTopic resolves the outbound topic for a device: the config
// priority chain first, then the type-wide default for singleton types.
func (t *Translator) commandTopic(dev *device.Device) string {
	if topic := dev.Config.CommandTopic(); topic != "" {
		return topic
	}
	return t.defaultTopics[dev.Type]
}
