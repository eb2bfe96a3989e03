package deploy

import (
	"errors"
	"testing"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

func newTestCatalog(t *testing.T) (*Catalog, *lifecycle.ManualClock, *recordingNotifier) {
	t.Helper()
	clock := lifecycle.NewManualClock()
	rec := &recordingNotifier{}
	c := NewCatalog(CatalogOptions{
		Clock:    clock,
		Notifier: rec,
		Seed:     SeedModels(),
	})
	return c, clock, rec
}

func TestCatalog_Upload(t *testing.T) {
	c, _, rec := newTestCatalog(t)

	t.Run("validates extension", func(t *testing.T) {
		if _, err := c.Upload("model.zip", 1024); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Upload() error = %v, want ErrInvalidFormat", err)
		}
		if _, err := c.Upload("", 1024); !errors.Is(err, ErrNoModel) {
			t.Errorf("Upload() empty name error = %v, want ErrNoModel", err)
		}
		if len(c.Models()) != 3 {
			t.Error("rejected uploads must not reach the catalog")
		}
	})

	t.Run("inserts newest first and trims", func(t *testing.T) {
		m, err := c.Upload("mobilenet-v3.mlmodel", 8_493_465)
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if m.Format != "MLMODEL" || m.Size != "8.1 MB" || m.Uploaded != "Just now" {
			t.Errorf("model = %+v", m)
		}

		models := c.Models()
		if len(models) != 3 {
			t.Fatalf("catalog len = %d, want 3", len(models))
		}
		if models[0].Name != "mobilenet-v3.mlmodel" {
			t.Errorf("first = %q", models[0].Name)
		}
		if models[2].Name != "resnet50-quantized.tflite" {
			t.Errorf("oldest kept = %q, want the previous second entry", models[2].Name)
		}
		if rec.last().Title != "Model uploaded!" {
			t.Errorf("notification = %q", rec.last().Title)
		}
	})
}

func TestCatalog_Import(t *testing.T) {
	c, clock, rec := newTestCatalog(t)

	t.Run("requires a url", func(t *testing.T) {
		if err := c.Import("  "); !errors.Is(err, ErrURLRequired) {
			t.Errorf("Import() error = %v, want ErrURLRequired", err)
		}
	})

	t.Run("lands after the fetch delay", func(t *testing.T) {
		if err := c.Import("https://huggingface.co/models/distilbert-base.onnx"); err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if titles := rec.titles(); titles[len(titles)-1] != "Importing model..." {
			t.Errorf("loading notification = %q", titles[len(titles)-1])
		}
		if c.Models()[0].Name == "distilbert-base.onnx" {
			t.Fatal("import landed before the delay")
		}

		clock.Advance(2 * time.Second)

		got := c.Models()[0]
		if got.Name != "distilbert-base.onnx" || got.Size != "Auto-detected" || got.Format != "ONNX" {
			t.Errorf("imported = %+v", got)
		}
		if rec.last().Title != "Model imported!" {
			t.Errorf("notification = %q", rec.last().Title)
		}
	})

	t.Run("shutdown cancels pending imports", func(t *testing.T) {
		if err := c.Import("https://example.com/late-model.onnx"); err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		c.Shutdown()
		clock.Advance(2 * time.Second)
		if c.Models()[0].Name == "late-model.onnx" {
			t.Error("cancelled import still landed")
		}
	})
}

func TestImportedName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://huggingface.co/model/yolo.onnx", "yolo.onnx"},
		{"https://example.com/trailing/", "trailing"},
		{"bare-name.onnx", "bare-name.onnx"},
		{"///", "imported-model.onnx"},
	}
	for _, tt := range tests {
		if got := importedName(tt.url); got != tt.want {
			t.Errorf("importedName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
