package mqtt

import "fmt"

// Topic layout constants.
//
// Telemetry topics follow the scheme used by the supported device firmwares:
//
//	{vendor}/{product}/{device_id}/{metric}   device-specific telemetry
//	{vendor}/{product}/{metric}               type-wide telemetry
//	{vendor}/{product}/command                default command topic
//
// The two-segment {vendor}/{product} pair is referred to as the topic root.
const (
	// TopicPrefixSystem is the base for the service's own status topics.
	TopicPrefixSystem = "brume/system"

	// CommandSuffix is the final segment of default command topics.
	CommandSuffix = "command"
)

// Topics provides builders for Brume MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	sub := topics.TelemetryWildcard("acme/humidifier")
//	// Returns: "acme/humidifier/#"
type Topics struct{}

// TelemetryWildcard returns the subscription pattern covering all telemetry
// under a topic root, both device-specific and type-wide.
//
// Example: acme/humidifier/#
func (Topics) TelemetryWildcard(root string) string {
	return root + "/#"
}

// DefaultCommand returns the default command topic under a topic root.
// Devices without an explicit command topic in their config listen here.
//
// Example: acme/humidifier/command
func (Topics) DefaultCommand(root string) string {
	return fmt.Sprintf("%s/%s", root, CommandSuffix)
}

// BaseCommand returns the command topic derived from a device base topic.
//
// Example: acme/plug/3f2a... -> acme/plug/3f2a.../command
func (Topics) BaseCommand(baseTopic string) string {
	return fmt.Sprintf("%s/%s", baseTopic, CommandSuffix)
}

// SystemStatus returns the service status topic used for LWT and
// online/offline announcements.
//
// Example: brume/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
