package convert

import (
	"fmt"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Status is the task-facing status vocabulary.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRunning   Status = "running"
	StatusQueued    Status = "queued"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusRunning, StatusQueued, StatusCancelled:
		return true
	}
	return false
}

// Format is one convertible model format.
type Format struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
}

// Formats lists the supported target formats in display order.
func Formats() []Format {
	return []Format{
		{ID: "coreml", Name: "Core ML", Ext: ".mlmodel"},
		{ID: "onnx", Name: "ONNX", Ext: ".onnx"},
		{ID: "tflite", Name: "TensorFlow Lite", Ext: ".tflite"},
		{ID: "tensorrt", Name: "TensorRT", Ext: ".engine"},
	}
}

// formatByID resolves a format id, reporting false for unknown ids.
func formatByID(id string) (Format, bool) {
	for _, f := range Formats() {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// Task is the payload stored per conversion entity.
type Task struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Time   string `json:"time"`
}

// View is the externally visible shape of a conversion task.
type View struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Status   Status    `json:"status"`
	Progress int       `json:"progress"`
	Time     string    `json:"time"`
	AddedAt  time.Time `json:"added_at"`
}

func statusOf(s lifecycle.Status) Status {
	switch s {
	case lifecycle.StatusSucceeded:
		return StatusCompleted
	case lifecycle.StatusRunning:
		return StatusRunning
	case lifecycle.StatusQueued:
		return StatusQueued
	default:
		return StatusCancelled
	}
}

func engineStatus(s Status) lifecycle.Status {
	switch s {
	case StatusCompleted:
		return lifecycle.StatusSucceeded
	case StatusRunning:
		return lifecycle.StatusRunning
	case StatusQueued:
		return lifecycle.StatusQueued
	case StatusCancelled:
		return lifecycle.StatusCancelled
	default:
		return ""
	}
}

// ViewOf converts an engine entity into the task-facing view. Exported
// for change-observer wiring (WebSocket broadcasts).
func ViewOf(e lifecycle.Entity[Task]) View {
	return View{
		ID:       e.ID,
		Name:     e.Payload.Name,
		Format:   e.Payload.Format,
		Status:   statusOf(e.Status),
		Progress: e.Progress,
		Time:     e.Payload.Time,
		AddedAt:  e.CreatedAt,
	}
}

func viewsOf(entities []lifecycle.Entity[Task]) []View {
	out := make([]View, len(entities))
	for i, e := range entities {
		out[i] = ViewOf(e)
	}
	return out
}

// remainingLabel estimates time left from the current progress, rounding
// minutes up so the label never reads "~0m" before completion.
func remainingLabel(progress int) string {
	mins := (100 - progress + 19) / 20
	return fmt.Sprintf("~%dm remaining", mins)
}
