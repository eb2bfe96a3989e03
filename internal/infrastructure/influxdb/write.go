package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDevicePerformance records a device performance sample.
//
// This is the primary method for recording fleet telemetry. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Entity id of the device
//   - name: Device name for human-readable queries
//   - status: Current device status (online, offline, syncing)
//   - performance: Performance score 0-100
//
// Example:
//
//	client.WriteDevicePerformance(42, "Edge Server Alpha", "online", 97)
func (c *Client) WriteDevicePerformance(deviceID int64, name, status string, performance float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_performance",
		map[string]string{
			"device_id": formatID(deviceID),
			"name":      name,
			"status":    status,
		},
		map[string]interface{}{
			"performance": performance,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRunProgress records the progress of a simulated run (deployment or
// conversion). One series per collection/entity pair.
//
// Parameters:
//   - collection: Which collection the entity belongs to ("deployments", "conversions")
//   - id: Entity id
//   - status: Current status (running, succeeded, cancelled, ...)
//   - progress: Progress percentage 0-100
func (c *Client) WriteRunProgress(collection string, id int64, status string, progress int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"run_progress",
		map[string]string{
			"collection": collection,
			"entity_id":  formatID(id),
			"status":     status,
		},
		map[string]interface{}{
			"progress": progress,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFleetSnapshot records aggregate fleet health counts.
//
// Written after fleet-wide operations (refresh, add, remove) so dashboards
// can chart fleet composition over time.
func (c *Client) WriteFleetSnapshot(online, offline, syncing int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fleet_snapshot",
		map[string]string{},
		map[string]interface{}{
			"online":  online,
			"offline": offline,
			"syncing": syncing,
			"total":   online + offline + syncing,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "console-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
