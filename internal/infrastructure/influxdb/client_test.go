package influxdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for the local dev InfluxDB.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "edgefleet-dev-token",
		Org:           "edgefleet",
		Bucket:        "telemetry",
		BatchSize:     100,
		FlushInterval: 1, // 1 second for faster test feedback
	}
}

// skipIfNoInfluxDB skips the test if InfluxDB is not running.
func skipIfNoInfluxDB(t *testing.T) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Skip("InfluxDB not available, skipping integration test")
	}
	return client
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:19999"

	_, err := influxdb.Connect(cfg)
	if err == nil {
		t.Fatal("Connect() expected error for unreachable server")
	}
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClose_Nil(t *testing.T) {
	c := &influxdb.Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v", err)
	}
}

func TestConnect(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestHealthCheck(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestWriteDevicePerformance(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	var writeErr error
	client.SetOnError(func(err error) { writeErr = err })

	client.WriteDevicePerformance(42, "Edge Server Alpha", "online", 97)
	client.Flush()

	time.Sleep(100 * time.Millisecond)
	if writeErr != nil {
		t.Errorf("async write error = %v", writeErr)
	}
}

func TestWriteRunProgress(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	client.WriteRunProgress("deployments", 7, "running", 60)
	client.WriteRunProgress("conversions", 3, "succeeded", 100)
	client.Flush()
}

func TestWriteFleetSnapshot(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	client.WriteFleetSnapshot(6, 2, 1)
	client.Flush()
}

func TestWritePoint(t *testing.T) {
	client := skipIfNoInfluxDB(t)
	defer client.Close()

	client.WritePoint("system_stats",
		map[string]string{"host": "console-01"},
		map[string]interface{}{"cpu_percent": 45.2})
	client.WritePointWithTime("system_stats",
		map[string]string{"host": "console-01"},
		map[string]interface{}{"cpu_percent": 44.8},
		time.Now().Add(-time.Minute))
	client.Flush()
}

func TestClose(t *testing.T) {
	client := skipIfNoInfluxDB(t)

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}

	// Writes after close are silently dropped.
	client.WriteDevicePerformance(1, "gone", "offline", 0)
	client.Flush()
}
