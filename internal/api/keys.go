package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edgefleet/console-core/internal/apikeys"
)

// handleListKeys returns all API keys with masked secrets.
func (s *Server) handleListKeys(w http.ResponseWriter, _ *http.Request) {
	keys := s.keys.List()
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys, "count": len(keys)})
}

// handleGetKey returns a single key by id with a masked secret.
func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid key id")
		return
	}

	key, err := s.keys.Get(id)
	if err != nil {
		writeNotFound(w, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, key)
}

// handleRevealKey returns a single key with the full secret. Listings never
// carry the secret; this is the only read path that does.
func (s *Server) handleRevealKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid key id")
		return
	}

	key, err := s.keys.Reveal(id)
	if err != nil {
		writeNotFound(w, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, key)
}

// GenerateKeyRequest is the payload for minting a new API key.
type GenerateKeyRequest struct {
	Name string `json:"name"`
}

// handleGenerateKey mints a new API key. The response carries the full
// secret; it is the caller's one chance to copy it.
func (s *Server) handleGenerateKey(w http.ResponseWriter, r *http.Request) {
	var req GenerateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	key, err := s.keys.Generate(req.Name)
	if err != nil {
		if errors.Is(err, apikeys.ErrNameRequired) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to generate key")
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

// handleRotateKey regenerates a key's secret after the simulated rotation
// delay. The key shows as rotating until the new secret lands.
func (s *Server) handleRotateKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid key id")
		return
	}

	key, err := s.keys.Rotate(id)
	if err != nil {
		writeNotFound(w, "key not found")
		return
	}
	writeJSON(w, http.StatusAccepted, key)
}

// handleDeprecateKey marks a key as deprecated without deleting it.
func (s *Server) handleDeprecateKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid key id")
		return
	}

	key, err := s.keys.Deprecate(id)
	if err != nil {
		writeNotFound(w, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, key)
}

// handleDeleteKey removes a key permanently.
func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid key id")
		return
	}

	if err := s.keys.Delete(id); err != nil {
		writeNotFound(w, "key not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleKeyUsage returns the current billing period usage snapshot.
func (s *Server) handleKeyUsage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.keys.Usage())
}
