package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("EDGEFLEET_CONFIG")
	defer os.Setenv("EDGEFLEET_CONFIG", originalEnv)

	os.Setenv("EDGEFLEET_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_InvalidPort verifies run fails config validation.
func TestRun_InvalidPort(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
console:
  id: test-console

api:
  host: "127.0.0.1"
  port: 0

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: error
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("EDGEFLEET_CONFIG")
	defer os.Setenv("EDGEFLEET_CONFIG", originalEnv)
	os.Setenv("EDGEFLEET_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with port 0")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("EDGEFLEET_CONFIG")
	defer os.Setenv("EDGEFLEET_CONFIG", originalEnv)

	os.Unsetenv("EDGEFLEET_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("EDGEFLEET_CONFIG")
	defer os.Setenv("EDGEFLEET_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("EDGEFLEET_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_StartupAndShutdown runs the console with MQTT and InfluxDB
// disabled, then cancels the context to exercise the shutdown path.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
console:
  id: test-console

api:
  host: "127.0.0.1"
  port: 18099
  timeouts:
    read: 5
    write: 5
    idle: 10

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: error
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("EDGEFLEET_CONFIG")
	defer os.Setenv("EDGEFLEET_CONFIG", originalEnv)
	os.Setenv("EDGEFLEET_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Errorf("run() error = %v", err)
	}
}
