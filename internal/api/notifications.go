package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListNotifications returns the retained notifications, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	if s.notifications == nil {
		writeJSON(w, http.StatusOK, map[string]any{"notifications": []any{}, "count": 0})
		return
	}
	recent := s.notifications.Recent()
	writeJSON(w, http.StatusOK, map[string]any{"notifications": recent, "count": len(recent)})
}

// handleDismissNotification removes one retained notification by id.
func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if s.notifications == nil {
		writeNotFound(w, "notification not found")
		return
	}
	if !s.notifications.Dismiss(chi.URLParam(r, "id")) {
		writeNotFound(w, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearNotifications removes all retained notifications.
func (s *Server) handleClearNotifications(w http.ResponseWriter, _ *http.Request) {
	if s.notifications != nil {
		s.notifications.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}
