package mqtt

import "fmt"

// Topic prefixes for the EdgeFleet MQTT surface.
//
// All topics use the flat scheme: edgefleet/{category}/{id}/{facet}
const (
	// TopicPrefix is the base for all EdgeFleet topics.
	TopicPrefix = "edgefleet"

	// TopicPrefixNotify is the base for notification topics.
	TopicPrefixNotify = "edgefleet/notify"

	// TopicPrefixFleet is the base for device fleet topics.
	TopicPrefixFleet = "edgefleet/fleet"

	// TopicPrefixDeploy is the base for model deployment topics.
	TopicPrefixDeploy = "edgefleet/deploy"

	// TopicPrefixConvert is the base for format conversion topics.
	TopicPrefixConvert = "edgefleet/convert"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "edgefleet/system"
)

// Topics provides builders for EdgeFleet MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.Notification("success")
//	// Returns: "edgefleet/notify/success"
type Topics struct{}

// Notification returns the topic for notifications of one severity kind.
//
// Example: edgefleet/notify/success
func (Topics) Notification(kind string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixNotify, kind)
}

// DeviceStatus returns the topic for one device's status updates.
//
// Example: edgefleet/fleet/42/status
func (Topics) DeviceStatus(deviceID int64) string {
	return fmt.Sprintf("%s/%d/status", TopicPrefixFleet, deviceID)
}

// DeployProgress returns the topic for one deployment's progress updates.
//
// Example: edgefleet/deploy/7/progress
func (Topics) DeployProgress(deploymentID int64) string {
	return fmt.Sprintf("%s/%d/progress", TopicPrefixDeploy, deploymentID)
}

// ConvertProgress returns the topic for one conversion's progress updates.
//
// Example: edgefleet/convert/3/progress
func (Topics) ConvertProgress(taskID int64) string {
	return fmt.Sprintf("%s/%d/progress", TopicPrefixConvert, taskID)
}

// SystemStatus returns the console status topic. Carries the online/offline
// payloads and the Last Will message.
//
// Example: edgefleet/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemRefresh returns the topic external tooling publishes to in order to
// trigger a fleet-wide device refresh.
//
// Example: edgefleet/system/refresh
func (Topics) SystemRefresh() string {
	return fmt.Sprintf("%s/refresh", TopicPrefixSystem)
}

// AllNotifications returns a pattern matching notifications of every kind.
//
// Pattern: edgefleet/notify/+
func (Topics) AllNotifications() string {
	return fmt.Sprintf("%s/+", TopicPrefixNotify)
}

// AllDeviceStatuses returns a pattern matching every device status topic.
//
// Pattern: edgefleet/fleet/+/status
func (Topics) AllDeviceStatuses() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixFleet)
}

// AllTopics returns a pattern matching all EdgeFleet topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: edgefleet/#
func (Topics) AllTopics() string {
	return "edgefleet/#"
}
