// EdgeFleet Console - Edge ML Fleet Management
//
// This is the main entry point for the EdgeFleet Console backend.
// The console simulates an edge-ML operations surface:
//   - Device fleet with connect/refresh lifecycles
//   - API key issue and rotation
//   - Model deployments with live progress
//   - Format conversion tasks
//
// State is held in memory and every mutation is pushed to WebSocket
// subscribers; MQTT and InfluxDB integrations are optional.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgefleet/console-core/internal/api"
	"github.com/edgefleet/console-core/internal/apikeys"
	"github.com/edgefleet/console-core/internal/convert"
	"github.com/edgefleet/console-core/internal/deploy"
	"github.com/edgefleet/console-core/internal/fleet"
	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/infrastructure/influxdb"
	"github.com/edgefleet/console-core/internal/infrastructure/logging"
	"github.com/edgefleet/console-core/internal/infrastructure/mqtt"
	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting EdgeFleet Console",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Notification hub: every domain manager emits through it, the REST
	// surface reads from it, sinks fan out to WebSocket and MQTT.
	notifications := notify.NewHub(cfg.Notifications.Retention, log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		notifications.AddSink(notify.NewMQTTSink(mqttClient, byte(cfg.MQTT.QoS)))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// The WebSocket hub is created before the managers so their change
	// observers can broadcast to it from the first mutation.
	wsHub := api.NewHub(cfg.WebSocket, log)
	go wsHub.Run(ctx)

	notifications.AddSink(&wsNotificationSink{hub: wsHub})

	// Domain managers. Each one seeds its demo collection and pushes every
	// mutation, including simulated timer ticks, to its WebSocket channel.
	fleetOpts := fleet.Options{
		Notifier: notifications,
		Logger:   log.With("component", "fleet"),
		Sim:      cfg.Simulation,
		Seed:     fleet.Seed(),
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[fleet.Device]) {
			wsHub.Broadcast(api.ChannelDeviceChanged, api.ChangeEvent{
				Kind:   string(kind),
				Entity: fleet.ViewOf(e),
			})
		},
	}
	if influxClient != nil {
		fleetOpts.Telemetry = influxClient
	}
	fleetMgr := fleet.NewManager(fleetOpts)
	defer fleetMgr.Shutdown()
	log.Info("fleet manager initialised", "devices", fleetMgr.Counts().Total)

	keyMgr := apikeys.NewManager(apikeys.Options{
		Notifier: notifications,
		Logger:   log.With("component", "apikeys"),
		Sim:      cfg.Simulation,
		Seed:     apikeys.Seed(),
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[apikeys.Key]) {
			wsHub.Broadcast(api.ChannelKeyChanged, api.ChangeEvent{
				Kind:   string(kind),
				Entity: apikeys.ViewOf(e),
			})
		},
	})
	defer keyMgr.Shutdown()

	deployOpts := deploy.Options{
		Notifier:   notifications,
		Logger:     log.With("component", "deploy"),
		Sim:        cfg.Simulation,
		SeedModels: deploy.SeedModels(),
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[deploy.Job]) {
			wsHub.Broadcast(api.ChannelDeployChanged, api.ChangeEvent{
				Kind:   string(kind),
				Entity: deploy.ViewOf(e),
			})
		},
	}
	if influxClient != nil {
		deployOpts.Telemetry = influxClient
	}
	deployMgr := deploy.NewManager(deployOpts)
	defer deployMgr.Shutdown()

	convertOpts := convert.Options{
		Notifier: notifications,
		Logger:   log.With("component", "convert"),
		Sim:      cfg.Simulation,
		Seed:     convert.Seed(),
		OnChange: func(kind lifecycle.ChangeKind, e lifecycle.Entity[convert.Task]) {
			wsHub.Broadcast(api.ChannelConversionChanged, api.ChangeEvent{
				Kind:   string(kind),
				Entity: convert.ViewOf(e),
			})
		},
	}
	if influxClient != nil {
		convertOpts.Telemetry = influxClient
	}
	convertMgr := convert.NewManager(convertOpts)
	defer convertMgr.Shutdown()

	// External tooling can trigger a fleet-wide refresh over MQTT.
	if mqttClient != nil {
		topic := mqtt.Topics{}.SystemRefresh()
		if subErr := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), func(_ string, _ []byte) error {
			log.Info("fleet refresh requested via MQTT")
			fleetMgr.RefreshAll()
			return nil
		}); subErr != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, subErr)
		}
		log.Info("MQTT refresh trigger subscribed", "topic", topic)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:        cfg.API,
		WS:            cfg.WebSocket,
		Logger:        log,
		Fleet:         fleetMgr,
		Keys:          keyMgr,
		Deployments:   deployMgr,
		Conversions:   convertMgr,
		Notifications: notifications,
		ExternalHub:   wsHub,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, server, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains in-flight requests)
	// 2. Domain managers (cancel pending simulation timers)
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)

	log.Info("EdgeFleet Console stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses EDGEFLEET_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("EDGEFLEET_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, server *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// wsNotificationSink forwards hub notifications to WebSocket subscribers on
// the notification channel.
type wsNotificationSink struct {
	hub *api.Hub
}

func (s *wsNotificationSink) Name() string { return "websocket" }

func (s *wsNotificationSink) Deliver(n notify.Notification) error {
	s.hub.Broadcast(api.ChannelNotification, n)
	return nil
}
