package command

import "github.com/brumelab/brume-core/internal/device"

// Abstract action verbs accepted across device types.
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionTurnOn     = "turn-on"
	ActionTurnOff    = "turn-off"
	ActionLevel1     = "level-1"
	ActionLevel2     = "level-2"
	ActionLevel3     = "level-3"
)

// Wire tokens for the smart plug relay firmware.
const (
	plugTokenOn  = "ON"
	plugTokenOff = "OFF"
)

// builtinActions maps each device type to its accepted abstract actions and
// the exact wire token each translates to.
//
// The mapping is per type rather than global because firmware families use
// incompatible vocabularies for semantically similar actions: the plug
// relay wants ON/OFF tokens while the humidifier echoes the action verb
// verbatim. Lookup is exhaustive per type, no fallback across types.
func builtinActions() map[device.DeviceType]map[string]string {
	return map[device.DeviceType]map[string]string{
		device.TypeSmartPlug: {
			ActionActivate:   plugTokenOn,
			ActionTurnOn:     plugTokenOn,
			ActionDeactivate: plugTokenOff,
			ActionTurnOff:    plugTokenOff,
		},
		device.TypeHumidifier3Power: {
			ActionActivate:   ActionActivate,
			ActionDeactivate: ActionDeactivate,
			ActionLevel1:     ActionLevel1,
			ActionLevel2:     ActionLevel2,
			ActionLevel3:     ActionLevel3,
		},
	}
}
