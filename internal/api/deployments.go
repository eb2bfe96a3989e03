package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edgefleet/console-core/internal/deploy"
	"github.com/edgefleet/console-core/internal/lifecycle"
)

// handleListDeployments returns deployments, with optional query filters.
//
// Query parameters:
//   - q: case-insensitive substring match against model name and target
//   - status: filter by lifecycle status
func (s *Server) handleListDeployments(w http.ResponseWriter, r *http.Request) {
	q := deploy.Query{
		Search: r.URL.Query().Get("q"),
		Status: lifecycle.Status(r.URL.Query().Get("status")),
	}
	jobs := s.deployments.List(q)
	writeJSON(w, http.StatusOK, map[string]any{"deployments": jobs, "count": len(jobs)})
}

// handleGetDeployment returns a single deployment by id.
func (s *Server) handleGetDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid deployment id")
		return
	}

	job, err := s.deployments.Get(id)
	if err != nil {
		writeNotFound(w, "deployment not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// CreateDeploymentRequest is the payload for starting a deployment.
type CreateDeploymentRequest struct {
	Model  string        `json:"model"`
	Target deploy.Target `json:"target"`
}

// handleCreateDeployment starts a new deployment run.
func (s *Server) handleCreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req CreateDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	job, err := s.deployments.Deploy(req.Model, req.Target)
	if err != nil {
		if isDeployValidationError(err) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to start deployment")
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// handleCancelDeployment stops an in-flight deployment.
func (s *Server) handleCancelDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid deployment id")
		return
	}

	job, err := s.deployments.Cancel(id)
	if err != nil {
		writeNotFound(w, "deployment not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// FailDeploymentRequest is the payload for failure injection.
type FailDeploymentRequest struct {
	Reason string `json:"reason"`
}

// handleFailDeployment marks a deployment failed from an external signal.
func (s *Server) handleFailDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid deployment id")
		return
	}

	var req FailDeploymentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}

	job, err := s.deployments.Fail(id, req.Reason)
	if err != nil {
		writeNotFound(w, "deployment not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleDeleteDeployment removes a deployment.
func (s *Server) handleDeleteDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeBadRequest(w, "invalid deployment id")
		return
	}

	if err := s.deployments.Delete(id); err != nil {
		writeNotFound(w, "deployment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListModels returns the model catalog, newest first.
func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	models := s.deployments.Catalog().Models()
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

// UploadModelRequest is the payload for registering an uploaded model.
type UploadModelRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// handleUploadModel adds a model artifact to the catalog.
func (s *Server) handleUploadModel(w http.ResponseWriter, r *http.Request) {
	var req UploadModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	model, err := s.deployments.Catalog().Upload(req.Name, req.Size)
	if err != nil {
		if isDeployValidationError(err) {
			writeValidationError(w, err.Error())
			return
		}
		writeInternalError(w, "failed to upload model")
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

// ImportModelRequest is the payload for importing a model from a URL.
type ImportModelRequest struct {
	URL string `json:"url"`
}

// handleImportModel fetches a model from a URL. The response is 202
// Accepted; the catalog entry lands after the simulated fetch completes.
func (s *Server) handleImportModel(w http.ResponseWriter, r *http.Request) {
	var req ImportModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.deployments.Catalog().Import(req.URL); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "accepted",
		"message": "import started, catalog update will follow via notification",
	})
}

// isDeployValidationError checks whether an error is a deployment
// validation error.
func isDeployValidationError(err error) bool {
	return errors.Is(err, deploy.ErrNoTarget) ||
		errors.Is(err, deploy.ErrInvalidTarget) ||
		errors.Is(err, deploy.ErrNoModel) ||
		errors.Is(err, deploy.ErrInvalidFormat) ||
		errors.Is(err, deploy.ErrURLRequired)
}
