package notify

import (
	"errors"
	"testing"
	"time"
)

type captureSink struct {
	name     string
	got      chan Notification
	fail     bool
	failWith error
}

func newCaptureSink(name string) *captureSink {
	return &captureSink{name: name, got: make(chan Notification, 16)}
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Deliver(n Notification) error {
	s.got <- n
	if s.fail {
		return s.failWith
	}
	return nil
}

func waitFor(t *testing.T, ch chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sink delivery")
		return Notification{}
	}
}

func TestHub_Notify(t *testing.T) {
	t.Run("fills in id and timestamp", func(t *testing.T) {
		h := NewHub(10, nil)
		h.Notify(Notification{Kind: KindInfo, Title: "hello"})

		recent := h.Recent()
		if len(recent) != 1 {
			t.Fatalf("Recent() len = %d, want 1", len(recent))
		}
		if recent[0].ID == "" {
			t.Error("ID not assigned")
		}
		if recent[0].CreatedAt.IsZero() {
			t.Error("CreatedAt not assigned")
		}
	})

	t.Run("delivers to every sink", func(t *testing.T) {
		h := NewHub(10, nil)
		a := newCaptureSink("a")
		b := newCaptureSink("b")
		h.AddSink(a)
		h.AddSink(b)

		sent := New(KindSuccess, "Deployment Complete", "model deployed")
		h.Notify(sent)

		for _, s := range []*captureSink{a, b} {
			got := waitFor(t, s.got)
			if got.ID != sent.ID || got.Title != sent.Title {
				t.Errorf("sink %s got %+v, want %+v", s.name, got, sent)
			}
		}
	})

	t.Run("sink failure is swallowed", func(t *testing.T) {
		h := NewHub(10, nil)
		bad := newCaptureSink("bad")
		bad.fail = true
		bad.failWith = errors.New("broker down")
		after := newCaptureSink("after")
		h.AddSink(bad)
		h.AddSink(after)

		h.Notify(New(KindError, "Deployment Failed", "no healthy targets"))

		// The failing sink must not stop later sinks or lose the record.
		waitFor(t, bad.got)
		waitFor(t, after.got)
		if len(h.Recent()) != 1 {
			t.Errorf("Recent() len = %d, want 1", len(h.Recent()))
		}
	})
}

func TestHub_Retention(t *testing.T) {
	h := NewHub(3, nil)
	for _, title := range []string{"one", "two", "three", "four"} {
		h.Notify(New(KindInfo, title, ""))
	}

	recent := h.Recent()
	if len(recent) != 3 {
		t.Fatalf("Recent() len = %d, want 3", len(recent))
	}
	// Newest first, oldest evicted.
	if recent[0].Title != "four" || recent[2].Title != "two" {
		t.Errorf("Recent() order wrong: %q .. %q", recent[0].Title, recent[2].Title)
	}
}

func TestHub_Dismiss(t *testing.T) {
	h := NewHub(10, nil)
	n := New(KindWarning, "Key Deleted", "")
	h.Notify(n)

	if !h.Dismiss(n.ID) {
		t.Fatal("Dismiss() = false, want true")
	}
	if h.Dismiss(n.ID) {
		t.Error("second Dismiss() = true, want false")
	}
	if len(h.Recent()) != 0 {
		t.Errorf("Recent() len = %d, want 0", len(h.Recent()))
	}
}

func TestHub_Clear(t *testing.T) {
	h := NewHub(10, nil)
	h.Notify(New(KindInfo, "a", ""))
	h.Notify(New(KindInfo, "b", ""))

	h.Clear()
	if len(h.Recent()) != 0 {
		t.Errorf("Recent() len after Clear = %d, want 0", len(h.Recent()))
	}
}

func TestNotification_WithAction(t *testing.T) {
	n := New(KindError, "Deployment Failed", "").WithAction("View Logs")
	if n.Action == nil || n.Action.Label != "View Logs" {
		t.Errorf("Action = %+v, want View Logs", n.Action)
	}
}
