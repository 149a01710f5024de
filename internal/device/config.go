package device

import (
	"strings"

	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
)

// Config keys recognised by the typed accessors.
const (
	configKeyMQTT         = "mqtt"
	configKeyTopics       = "topics"
	configKeyCommand      = "command"
	configKeyCommandTopic = "command_topic"
	configKeyBaseTopic    = "base_topic"
	configKeyControl      = "control"
	configKeyParams       = "params"
	configKeyHumidityMin  = "humidity_min"
	configKeyHumidityMax  = "humidity_max"
)

// Default humidity control bounds used when the device config does not
// declare them. Declared bounds are checked at device validation time;
// they describe the control target range, not an ingestion filter.
const (
	DefaultHumidityMin = 0.0
	DefaultHumidityMax = 100.0
)

// BaseTopic returns the device's configured MQTT base topic, or "" when
// none is set.
func (c Config) BaseTopic() string {
	doc := section(c, configKeyMQTT)
	return stringValue(doc, configKeyBaseTopic)
}

// CommandTopic returns the topic commands for this device should be
// published to. Config locations are checked in priority order:
//
//  1. mqtt.topics.command (explicit command topic)
//  2. mqtt.command_topic (legacy flat key)
//  3. mqtt.base_topic + "/command"
//
// Returns "" when none of the locations is set; the caller is expected to
// fall back to the type-wide default topic.
func (c Config) CommandTopic() string {
	doc := section(c, configKeyMQTT)
	if doc == nil {
		return ""
	}

	if topics := section(doc, configKeyTopics); topics != nil {
		if topic := stringValue(topics, configKeyCommand); topic != "" {
			return topic
		}
	}

	if topic := stringValue(doc, configKeyCommandTopic); topic != "" {
		return topic
	}

	if base := stringValue(doc, configKeyBaseTopic); base != "" {
		return mqtt.Topics{}.BaseCommand(strings.TrimRight(base, "/"))
	}

	return ""
}

// HumidityBounds returns the device's humidity control target range.
// Each bound is looked up independently at the config root, then under
// the "control" section, then under "params". Missing bounds fall back
// to the defaults.
func (c Config) HumidityBounds() (minBound, maxBound float64) {
	minBound = DefaultHumidityMin
	maxBound = DefaultHumidityMax

	sections := []map[string]any{c, section(c, configKeyControl), section(c, configKeyParams)}

	for _, s := range sections {
		if v, ok := floatValue(s, configKeyHumidityMin); ok {
			minBound = v
			break
		}
	}
	for _, s := range sections {
		if v, ok := floatValue(s, configKeyHumidityMax); ok {
			maxBound = v
			break
		}
	}

	return minBound, maxBound
}

// section returns a nested map config value, or nil when the key is absent
// or not a map.
func section(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if s, ok := m[key].(map[string]any); ok {
		return s
	}
	return nil
}

// stringValue returns a string config value, or "" when the key is absent
// or not a string.
func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// floatValue returns a numeric config value. JSON decoding yields float64
// but YAML-sourced configs may carry int values, so both are accepted.
func floatValue(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
