package convert

import (
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Seed returns the demo conversion tasks.
func Seed() []lifecycle.Entity[Task] {
	base := time.Date(2025, time.January, 10, 14, 0, 0, 0, time.UTC)
	return []lifecycle.Entity[Task]{
		{
			ID:        1,
			Payload:   Task{Name: "PyTorch → Core ML", Format: "coreml", Time: "2m 34s"},
			Status:    lifecycle.StatusSucceeded,
			Progress:  100,
			CreatedAt: base,
		},
		{
			ID:        2,
			Payload:   Task{Name: "TensorFlow → TFLite", Format: "tflite", Time: "~1m remaining"},
			Status:    lifecycle.StatusRunning,
			Progress:  67,
			CreatedAt: base.Add(5 * time.Minute),
		},
		{
			ID:        3,
			Payload:   Task{Name: "ONNX → TensorRT", Format: "tensorrt", Time: "Pending"},
			Status:    lifecycle.StatusQueued,
			Progress:  0,
			CreatedAt: base.Add(10 * time.Minute),
		},
	}
}
