package deploy

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Target classifies where a model is deployed.
type Target string

const (
	TargetEdge   Target = "edge"
	TargetMobile Target = "mobile"
	TargetIoT    Target = "iot"
	TargetServer Target = "server"
)

// Valid reports whether the target is one of the known classes.
func (t Target) Valid() bool {
	switch t {
	case TargetEdge, TargetMobile, TargetIoT, TargetServer:
		return true
	}
	return false
}

// Label returns the display name for the target.
func (t Target) Label() string {
	switch t {
	case TargetEdge:
		return "Edge Device"
	case TargetMobile:
		return "Mobile"
	case TargetIoT:
		return "IoT"
	case TargetServer:
		return "Server"
	}
	return string(t)
}

// modelExtensions are the accepted artifact file extensions.
var modelExtensions = map[string]bool{
	".onnx":    true,
	".tflite":  true,
	".pt":      true,
	".pb":      true,
	".mlmodel": true,
}

// formatOf derives the display format from a model file name, e.g.
// "YOLOv8-nano.onnx" -> "ONNX". Returns "" for unknown extensions.
func formatOf(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if !modelExtensions[ext] {
		return ""
	}
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// Job is the payload stored per deployment entity.
type Job struct {
	Model  string `json:"model"`
	Target Target `json:"target"`
	Format string `json:"format"`
}

// View is the externally visible shape of a deployment job.
type View struct {
	ID       int64            `json:"id"`
	Model    string           `json:"model"`
	Target   Target           `json:"target"`
	Format   string           `json:"format"`
	Status   lifecycle.Status `json:"status"`
	Progress int              `json:"progress"`
	AddedAt  time.Time        `json:"added_at"`
}

// ViewOf converts an engine entity into the deployment-facing view.
// Exported for change-observer wiring (WebSocket broadcasts).
func ViewOf(e lifecycle.Entity[Job]) View {
	return View{
		ID:       e.ID,
		Model:    e.Payload.Model,
		Target:   e.Payload.Target,
		Format:   e.Payload.Format,
		Status:   e.Status,
		Progress: e.Progress,
		AddedAt:  e.CreatedAt,
	}
}

func viewsOf(entities []lifecycle.Entity[Job]) []View {
	out := make([]View, len(entities))
	for i, e := range entities {
		out[i] = ViewOf(e)
	}
	return out
}

// Model is one catalog entry.
type Model struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Format   string `json:"format"`
	Uploaded string `json:"uploaded"`
}

// formatSize renders a raw byte count the way the catalog displays it.
func formatSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
