package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for EdgeFleet Console.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Console       ConsoleConfig       `yaml:"console"`
	API           APIConfig           `yaml:"api"`
	WebSocket     WebSocketConfig     `yaml:"websocket"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	InfluxDB      InfluxDBConfig      `yaml:"influxdb"`
	Logging       LoggingConfig       `yaml:"logging"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Simulation    SimulationConfig    `yaml:"simulation"`
}

// ConsoleConfig contains instance-level identity settings.
type ConsoleConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings. The broker is
// optional; when disabled the console runs without the MQTT notification
// sink.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings, in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for run-progress and
// fleet telemetry. Optional; disabled by default.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// NotificationsConfig contains notification hub settings.
type NotificationsConfig struct {
	// Retention is how many recent notifications the hub keeps for the
	// REST surface.
	Retention int `yaml:"retention"`
}

// SimulationConfig contains the pacing of the simulated backend operations.
// Values are tuned to feel realistic in a demo; tests substitute a manual
// clock and never depend on them.
type SimulationConfig struct {
	// DeviceConnectSeconds is how long a newly added device spends syncing
	// before it comes online.
	DeviceConnectSeconds int `yaml:"device_connect_seconds"`

	// DeviceRefreshSeconds is the duration of a fleet-wide refresh.
	DeviceRefreshSeconds float64 `yaml:"device_refresh_seconds"`

	// DeployTickMillis and DeployStep pace deployment progress.
	DeployTickMillis int `yaml:"deploy_tick_millis"`
	DeployStep       int `yaml:"deploy_step"`

	// ConvertTickMillis and ConvertMaxStep pace format conversions; each
	// tick advances by a random amount below ConvertMaxStep.
	ConvertTickMillis int `yaml:"convert_tick_millis"`
	ConvertMaxStep    int `yaml:"convert_max_step"`

	// KeyRotateSeconds is the simulated latency of an API key rotation.
	KeyRotateSeconds int `yaml:"key_rotate_seconds"`

	// ModelImportSeconds is the simulated latency of importing a model
	// from a URL.
	ModelImportSeconds int `yaml:"model_import_seconds"`

	// QuickActionSeconds is the simulated latency of the one-shot
	// optimization quick actions.
	QuickActionSeconds int `yaml:"quick_action_seconds"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: EDGEFLEET_SECTION_KEY
// For example: EDGEFLEET_API_PORT, EDGEFLEET_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults. The console runs without
// any config file at all: MQTT and InfluxDB stay disabled, the API binds
// everywhere on 8080.
func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			ID:       "console-001",
			Name:     "EdgeFleet Console",
			Timezone: "UTC",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "edgefleet-console",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Notifications: NotificationsConfig{
			Retention: 100,
		},
		Simulation: SimulationConfig{
			DeviceConnectSeconds: 3,
			DeviceRefreshSeconds: 1.5,
			DeployTickMillis:     300,
			DeployStep:           10,
			ConvertTickMillis:    500,
			ConvertMaxStep:       15,
			KeyRotateSeconds:     1,
			ModelImportSeconds:   2,
			QuickActionSeconds:   2,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: EDGEFLEET_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("EDGEFLEET_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("EDGEFLEET_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("EDGEFLEET_MQTT_ENABLED"); v != "" {
		cfg.MQTT.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("EDGEFLEET_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("EDGEFLEET_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("EDGEFLEET_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("EDGEFLEET_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Console.ID == "" {
		errs = append(errs, "console.id is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.Notifications.Retention < 0 {
		errs = append(errs, "notifications.retention must not be negative")
	}

	sim := c.Simulation
	if sim.DeployStep < 1 || sim.DeployStep > 100 {
		errs = append(errs, "simulation.deploy_step must be between 1 and 100")
	}
	if sim.ConvertMaxStep < 1 || sim.ConvertMaxStep > 100 {
		errs = append(errs, "simulation.convert_max_step must be between 1 and 100")
	}
	if sim.DeployTickMillis < 1 || sim.ConvertTickMillis < 1 {
		errs = append(errs, "simulation tick intervals must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// DeviceConnectDelay returns the simulated device connection latency.
func (s SimulationConfig) DeviceConnectDelay() time.Duration {
	return time.Duration(s.DeviceConnectSeconds) * time.Second
}

// DeviceRefreshDelay returns the simulated fleet refresh duration.
func (s SimulationConfig) DeviceRefreshDelay() time.Duration {
	return time.Duration(s.DeviceRefreshSeconds * float64(time.Second))
}

// DeployTick returns the deployment progress tick interval.
func (s SimulationConfig) DeployTick() time.Duration {
	return time.Duration(s.DeployTickMillis) * time.Millisecond
}

// ConvertTick returns the conversion progress tick interval.
func (s SimulationConfig) ConvertTick() time.Duration {
	return time.Duration(s.ConvertTickMillis) * time.Millisecond
}

// KeyRotateDelay returns the simulated key rotation latency.
func (s SimulationConfig) KeyRotateDelay() time.Duration {
	return time.Duration(s.KeyRotateSeconds) * time.Second
}

// ModelImportDelay returns the simulated model import latency.
func (s SimulationConfig) ModelImportDelay() time.Duration {
	return time.Duration(s.ModelImportSeconds) * time.Second
}

// QuickActionDelay returns the quick action latency as a duration.
func (s SimulationConfig) QuickActionDelay() time.Duration {
	return time.Duration(s.QuickActionSeconds) * time.Second
}
