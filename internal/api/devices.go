package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edgefleet/console-core/internal/fleet"
)

// parseID extracts the numeric {id} route parameter.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// handleListDevices returns the fleet, with optional query filters.
//
// Query parameters:
//   - q: case-insensitive substring match against name and OS
//   - status: filter by status (online, offline, syncing)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	q := fleet.Query{
		Search: r.URL.Query().Get("q"),
		Status: fleet.Status(r.URL.Query().Get("status")),
	}

	devices, err := s.fleet.List(q)
	if err != nil {
		if errors.Is(err, fleet.ErrInvalidStatus) {
			writeBadRequest(w, "invalid status filter")
			return
		}
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by id.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid device id")
		return
	}

	device, err := s.fleet.Get(id)
	if err != nil {
		writeNotFound(w, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// AddDeviceRequest is the payload for creating a device.
type AddDeviceRequest struct {
	Name string           `json:"name"`
	OS   string           `json:"os"`
	Type fleet.DeviceType `json:"type"`
}

// handleAddDevice registers a new device. The device starts syncing and
// comes online after the simulated connect delay.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var req AddDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	device, err := s.fleet.Add(req.Name, req.OS, req.Type)
	if err != nil {
		if isFleetValidationError(err) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to add device")
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

// handleRemoveDevice removes a device by id.
func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid device id")
		return
	}

	if err := s.fleet.Remove(id); err != nil {
		writeNotFound(w, "device not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeviceCounts returns the aggregate fleet health summary.
func (s *Server) handleDeviceCounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.fleet.Counts())
}

// handleRefreshDevices starts a fleet-wide refresh sweep. The response is
// 202 Accepted; per-device updates arrive via WebSocket when the sweep
// completes.
func (s *Server) handleRefreshDevices(w http.ResponseWriter, _ *http.Request) {
	s.fleet.RefreshAll()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "accepted",
		"message": "refresh started, device updates will follow via WebSocket",
	})
}

// handleReconnectDevice re-runs the connect sequence for a device.
func (s *Server) handleReconnectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid device id")
		return
	}

	device, err := s.fleet.Reconnect(id)
	if err != nil {
		writeNotFound(w, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// FailDeviceRequest is the payload for failure injection.
type FailDeviceRequest struct {
	Reason string `json:"reason"`
}

// handleFailDevice marks a device offline from an external failure signal.
func (s *Server) handleFailDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid device id")
		return
	}

	var req FailDeviceRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}

	device, err := s.fleet.Fail(id, req.Reason)
	if err != nil {
		writeNotFound(w, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// isFleetValidationError checks whether an error is a fleet validation error.
func isFleetValidationError(err error) bool {
	return errors.Is(err, fleet.ErrNameRequired) ||
		errors.Is(err, fleet.ErrOSRequired) ||
		errors.Is(err, fleet.ErrInvalidType)
}
