package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edgefleet/console-core/internal/convert"
)

// handleListConversions returns conversion tasks, with optional filters.
//
// Query parameters:
//   - q: case-insensitive substring match against the task name
//   - status: filter by status (completed, running, queued, cancelled)
func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	q := convert.Query{
		Search: r.URL.Query().Get("q"),
		Status: convert.Status(r.URL.Query().Get("status")),
	}

	tasks, err := s.conversions.List(q)
	if err != nil {
		if errors.Is(err, convert.ErrInvalidStatus) {
			writeBadRequest(w, "invalid status filter")
			return
		}
		writeInternalError(w, "failed to list conversions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversions": tasks, "count": len(tasks)})
}

// handleGetConversion returns a single conversion task by id.
func (s *Server) handleGetConversion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid conversion id")
		return
	}

	task, err := s.conversions.Get(id)
	if err != nil {
		writeNotFound(w, "conversion not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleListFormats returns the supported target formats.
func (s *Server) handleListFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": convert.Formats()})
}

// StartConversionRequest is the payload for starting a conversion.
type StartConversionRequest struct {
	Format string `json:"format"`
}

// handleStartConversion begins a new conversion run.
func (s *Server) handleStartConversion(w http.ResponseWriter, r *http.Request) {
	var req StartConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	task, err := s.conversions.Start(req.Format)
	if err != nil {
		if errors.Is(err, convert.ErrInvalidFormat) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to start conversion")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleCancelConversion stops a running or queued conversion task.
func (s *Server) handleCancelConversion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid conversion id")
		return
	}

	task, err := s.conversions.Cancel(id)
	if err != nil {
		writeNotFound(w, "conversion not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleDeleteConversion removes a conversion task.
func (s *Server) handleDeleteConversion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid conversion id")
		return
	}

	if err := s.conversions.Delete(id); err != nil {
		writeNotFound(w, "conversion not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuickActionRequest is the payload for running an optimization action.
type QuickActionRequest struct {
	Action string `json:"action"`
}

// handleQuickAction runs a named optimization action. The response is 202
// Accepted; completion raises a notification.
func (s *Server) handleQuickAction(w http.ResponseWriter, r *http.Request) {
	var req QuickActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.conversions.RunAction(req.Action); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "accepted",
		"message": "action started, completion will follow via notification",
	})
}
