package apikeys

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Title
	}
	return out
}

func newTestManager(t *testing.T, seed []lifecycle.Entity[Key]) (*Manager, *lifecycle.ManualClock, *recordingNotifier) {
	t.Helper()
	clock := lifecycle.NewManualClock()
	rec := &recordingNotifier{}
	m := NewManager(Options{
		Clock:    clock,
		Notifier: rec,
		Seed:     seed,
		Now:      func() time.Time { return time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC) },
	})
	return m, clock, rec
}

func TestManager_Generate(t *testing.T) {
	m, _, rec := newTestManager(t, nil)

	t.Run("requires a name", func(t *testing.T) {
		if _, err := m.Generate(""); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Generate() error = %v, want ErrNameRequired", err)
		}
		if _, err := m.Generate("   "); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Generate() whitespace error = %v, want ErrNameRequired", err)
		}
	})

	t.Run("returns the secret revealed once", func(t *testing.T) {
		v, err := m.Generate("CI Pipeline Key")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !strings.HasPrefix(v.Key, SecretPrefix) {
			t.Errorf("Key = %q, want %q prefix", v.Key, SecretPrefix)
		}
		if strings.Contains(v.Key, "•") {
			t.Errorf("Generate() returned a masked secret: %q", v.Key)
		}
		if v.Status != StatusActive {
			t.Errorf("Status = %q, want active", v.Status)
		}
		if v.Created != "Jan 15, 2025" || v.LastUsed != "Never" {
			t.Errorf("timestamps = %q / %q", v.Created, v.LastUsed)
		}

		got, err := m.Get(v.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !strings.Contains(got.Key, "•") {
			t.Errorf("Get() key = %q, want masked", got.Key)
		}
		if got.Key[:7] != v.Key[:7] {
			t.Errorf("masked prefix = %q, want %q", got.Key[:7], v.Key[:7])
		}

		if titles := rec.titles(); titles[len(titles)-1] != "API Key Generated!" {
			t.Errorf("last notification = %q", titles[len(titles)-1])
		}
	})

	t.Run("new key listed first", func(t *testing.T) {
		keys := m.List()
		if len(keys) == 0 || keys[0].Name != "CI Pipeline Key" {
			t.Fatalf("List()[0] = %+v, want CI Pipeline Key first", keys)
		}
	})
}

func TestManager_ListSeed(t *testing.T) {
	m, _, _ := newTestManager(t, Seed())

	keys := m.List()
	if len(keys) != 4 {
		t.Fatalf("List() len = %d, want 4", len(keys))
	}
	if keys[0].Name != "Production API Key" || keys[0].Status != StatusActive {
		t.Errorf("first = %q/%q", keys[0].Name, keys[0].Status)
	}
	if keys[3].Name != "Legacy Key (Deprecated)" || keys[3].Status != StatusDeprecated {
		t.Errorf("last = %q/%q", keys[3].Name, keys[3].Status)
	}
	for _, k := range keys {
		if !strings.Contains(k.Key, "•") {
			t.Errorf("%s: listing leaked the secret: %q", k.Name, k.Key)
		}
	}
}

func TestManager_Reveal(t *testing.T) {
	m, _, _ := newTestManager(t, Seed())

	v, err := m.Reveal(1)
	if err != nil {
		t.Fatalf("Reveal() error = %v", err)
	}
	if v.Key != "sk_live_xxxxxxxxxxxxxxxxxxxxx" {
		t.Errorf("Reveal() key = %q", v.Key)
	}

	if _, err := m.Reveal(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reveal(99) error = %v, want ErrNotFound", err)
	}
}

func TestManager_Rotate(t *testing.T) {
	m, clock, rec := newTestManager(t, Seed())

	t.Run("unknown id", func(t *testing.T) {
		if _, err := m.Rotate(99); !errors.Is(err, ErrNotFound) {
			t.Errorf("Rotate(99) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rotates after the delay", func(t *testing.T) {
		v, err := m.Rotate(2)
		if err != nil {
			t.Fatalf("Rotate() error = %v", err)
		}
		if v.Status != StatusRotating {
			t.Errorf("Status = %q, want rotating", v.Status)
		}

		clock.Advance(time.Second)

		got, err := m.Reveal(2)
		if err != nil {
			t.Fatalf("Reveal() error = %v", err)
		}
		if got.Status != StatusActive {
			t.Errorf("Status = %q, want active", got.Status)
		}
		if !strings.HasPrefix(got.Key, SecretPrefix) {
			t.Errorf("rotated key = %q, want %q prefix", got.Key, SecretPrefix)
		}
		if got.Created != "Jan 15, 2025" {
			t.Errorf("Created = %q, want refreshed", got.Created)
		}

		titles := rec.titles()
		if titles[len(titles)-1] != "Key regenerated!" {
			t.Errorf("last notification = %q", titles[len(titles)-1])
		}
	})

	t.Run("re-rotating replaces the pending rotation", func(t *testing.T) {
		if _, err := m.Rotate(3); err != nil {
			t.Fatalf("Rotate() error = %v", err)
		}
		if _, err := m.Rotate(3); err != nil {
			t.Fatalf("Rotate() again error = %v", err)
		}

		clock.Advance(time.Second)

		done := 0
		for _, title := range rec.titles() {
			if title == "Key regenerated!" {
				done++
			}
		}
		// One completion from the previous subtest plus exactly one here.
		if done != 2 {
			t.Errorf("regenerated notifications = %d, want 2", done)
		}
	})
}

func TestManager_Deprecate(t *testing.T) {
	m, _, rec := newTestManager(t, Seed())

	v, err := m.Deprecate(1)
	if err != nil {
		t.Fatalf("Deprecate() error = %v", err)
	}
	if v.Status != StatusDeprecated {
		t.Errorf("Status = %q, want deprecated", v.Status)
	}
	if titles := rec.titles(); titles[len(titles)-1] != "Production API Key deprecated" {
		t.Errorf("last notification = %q", titles[len(titles)-1])
	}

	if _, err := m.Deprecate(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deprecate(99) error = %v, want ErrNotFound", err)
	}
}

func TestManager_Delete(t *testing.T) {
	m, clock, rec := newTestManager(t, Seed())

	t.Run("removes the key", func(t *testing.T) {
		if err := m.Delete(2); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := m.Get(2); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(2) after delete error = %v, want ErrNotFound", err)
		}
		if titles := rec.titles(); titles[len(titles)-1] != "Key deleted" {
			t.Errorf("last notification = %q", titles[len(titles)-1])
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if err := m.Delete(2); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(2) again error = %v, want ErrNotFound", err)
		}
	})

	t.Run("deleting mid-rotation discards the run", func(t *testing.T) {
		if _, err := m.Rotate(3); err != nil {
			t.Fatalf("Rotate() error = %v", err)
		}
		if err := m.Delete(3); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		clock.Advance(time.Second)

		for _, title := range rec.titles() {
			if title == "Key regenerated!" {
				t.Fatal("rotation completed for a deleted key")
			}
		}
	})
}

func TestManager_Usage(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	u := m.Usage()
	if u.TotalRequests != "1.2M" || u.RequestLimit != "5M" {
		t.Errorf("requests = %q/%q", u.TotalRequests, u.RequestLimit)
	}
	if u.ComputeHours != "847" || u.ComputeLimit != "1,000" {
		t.Errorf("compute = %q/%q", u.ComputeHours, u.ComputeLimit)
	}
	if u.DataTransfer != "45 GB" || u.TransferLimit != "100 GB" {
		t.Errorf("transfer = %q/%q", u.DataTransfer, u.TransferLimit)
	}
}
