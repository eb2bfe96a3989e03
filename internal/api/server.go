// Package api provides the HTTP REST API and WebSocket server for the
// EdgeFleet Console.
//
// It exposes the device fleet, API key, deployment, and conversion
// collections to user interfaces, and broadcasts every entity mutation to
// WebSocket subscribers in real time.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/edgefleet/console-core/internal/apikeys"
	"github.com/edgefleet/console-core/internal/convert"
	"github.com/edgefleet/console-core/internal/deploy"
	"github.com/edgefleet/console-core/internal/fleet"
	"github.com/edgefleet/console-core/internal/infrastructure/config"
	"github.com/edgefleet/console-core/internal/infrastructure/logging"
	"github.com/edgefleet/console-core/internal/notify"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// WebSocket broadcast channels, one per entity collection plus the
// notification stream.
const (
	ChannelDeviceChanged     = "device.changed"
	ChannelKeyChanged        = "key.changed"
	ChannelDeployChanged     = "deployment.changed"
	ChannelConversionChanged = "conversion.changed"
	ChannelNotification      = "notification"
)

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config        config.APIConfig
	WS            config.WebSocketConfig
	Logger        *logging.Logger
	Fleet         *fleet.Manager
	Keys          *apikeys.Manager
	Deployments   *deploy.Manager
	Conversions   *convert.Manager
	Notifications *notify.Hub
	ExternalHub   *Hub // If set, the server uses this hub instead of creating its own
	Version       string
}

// Server is the HTTP API server for the EdgeFleet Console.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg           config.APIConfig
	wsCfg         config.WebSocketConfig
	logger        *logging.Logger
	fleet         *fleet.Manager
	keys          *apikeys.Manager
	deployments   *deploy.Manager
	conversions   *convert.Manager
	notifications *notify.Hub
	version       string
	server        *http.Server
	hub           *Hub
	externalHub   bool               // true if hub was injected externally
	cancel        context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Fleet == nil {
		return nil, fmt.Errorf("fleet manager is required")
	}
	if deps.Keys == nil {
		return nil, fmt.Errorf("api key manager is required")
	}
	if deps.Deployments == nil {
		return nil, fmt.Errorf("deployment manager is required")
	}
	if deps.Conversions == nil {
		return nil, fmt.Errorf("conversion manager is required")
	}

	s := &Server{
		cfg:           deps.Config,
		wsCfg:         deps.WS,
		logger:        deps.Logger,
		fleet:         deps.Fleet,
		keys:          deps.Keys,
		deployments:   deps.Deployments,
		conversions:   deps.Conversions,
		notifications: deps.Notifications,
		version:       deps.Version,
	}

	// Use an externally-provided hub if available (needed when the change
	// observers are wired before the server exists).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with
// Close().
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	// Create WebSocket hub (unless one was injected externally)
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub loop)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
