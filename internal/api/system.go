package api

import (
	"net/http"

	"github.com/edgefleet/console-core/internal/convert"
	"github.com/edgefleet/console-core/internal/deploy"
)

// Stats is the aggregate console snapshot served by /stats.
type Stats struct {
	Fleet            any `json:"fleet"`
	Keys             int `json:"keys"`
	Deployments      int `json:"deployments"`
	Conversions      int `json:"conversions"`
	WebSocketClients int `json:"websocket_clients"`
}

// handleStats returns collection sizes and fleet health in one response.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	conversions, err := s.conversions.List(convert.Query{})
	if err != nil {
		writeInternalError(w, "failed to collect stats")
		return
	}

	stats := Stats{
		Fleet:       s.fleet.Counts(),
		Keys:        len(s.keys.List()),
		Deployments: len(s.deployments.List(deploy.Query{})),
		Conversions: len(conversions),
	}
	if s.hub != nil {
		stats.WebSocketClients = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, stats)
}
