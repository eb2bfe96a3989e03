package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)

		// Device fleet endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleAddDevice)
			r.Get("/counts", s.handleDeviceCounts)
			r.Post("/refresh", s.handleRefreshDevices)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Delete("/", s.handleRemoveDevice)
				r.Post("/reconnect", s.handleReconnectDevice)
				r.Post("/fail", s.handleFailDevice)
			})
		})

		// API key endpoints
		r.Route("/keys", func(r chi.Router) {
			r.Get("/", s.handleListKeys)
			r.Post("/", s.handleGenerateKey)
			r.Get("/usage", s.handleKeyUsage)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetKey)
				r.Delete("/", s.handleDeleteKey)
				r.Get("/reveal", s.handleRevealKey)
				r.Post("/rotate", s.handleRotateKey)
				r.Post("/deprecate", s.handleDeprecateKey)
			})
		})

		// Deployment endpoints
		r.Route("/deployments", func(r chi.Router) {
			r.Get("/", s.handleListDeployments)
			r.Post("/", s.handleCreateDeployment)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDeployment)
				r.Delete("/", s.handleDeleteDeployment)
				r.Post("/cancel", s.handleCancelDeployment)
				r.Post("/fail", s.handleFailDeployment)
			})
		})

		// Model catalog endpoints
		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.handleListModels)
			r.Post("/", s.handleUploadModel)
			r.Post("/import", s.handleImportModel)
		})

		// Conversion endpoints
		r.Route("/conversions", func(r chi.Router) {
			r.Get("/", s.handleListConversions)
			r.Post("/", s.handleStartConversion)
			r.Get("/formats", s.handleListFormats)
			r.Post("/actions", s.handleQuickAction)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetConversion)
				r.Delete("/", s.handleDeleteConversion)
				r.Post("/cancel", s.handleCancelConversion)
			})
		})

		// Notification endpoints
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Delete("/", s.handleClearNotifications)
			r.Delete("/{id}", s.handleDismissNotification)
		})

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
