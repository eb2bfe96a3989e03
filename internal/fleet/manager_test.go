package fleet

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
	"github.com/edgefleet/console-core/internal/notify"
)

// recordingNotifier captures notifications synchronously for assertions.
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

func (r *recordingNotifier) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return notify.Notification{}
	}
	return r.sent[len(r.sent)-1]
}

func newTestManager(t *testing.T, seed []lifecycle.Entity[Device]) (*Manager, *lifecycle.ManualClock, *recordingNotifier) {
	t.Helper()
	clock := lifecycle.NewManualClock()
	rec := &recordingNotifier{}
	m := NewManager(Options{
		Clock:    clock,
		Notifier: rec,
		Rand:     rand.New(rand.NewSource(1)),
		Seed:     seed,
	})
	return m, clock, rec
}

func TestManager_Add(t *testing.T) {
	m, clock, rec := newTestManager(t, nil)

	t.Run("validates required fields", func(t *testing.T) {
		if _, err := m.Add("", "Linux", TypeEdge); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Add() error = %v, want ErrNameRequired", err)
		}
		if _, err := m.Add("  ", "Linux", TypeEdge); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Add() whitespace name error = %v, want ErrNameRequired", err)
		}
		if _, err := m.Add("Node", "", TypeEdge); !errors.Is(err, ErrOSRequired) {
			t.Errorf("Add() error = %v, want ErrOSRequired", err)
		}
		if _, err := m.Add("Node", "Linux", DeviceType("mainframe")); !errors.Is(err, ErrInvalidType) {
			t.Errorf("Add() error = %v, want ErrInvalidType", err)
		}
	})

	t.Run("new device syncs then comes online", func(t *testing.T) {
		v, err := m.Add("Edge Node Beta", "Linux ARM64", TypeEdge)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if v.Status != StatusSyncing {
			t.Errorf("Status = %q, want syncing", v.Status)
		}
		if v.Performance != 0 || v.LastSeen != "Connecting..." {
			t.Errorf("fresh device = perf %d / %q, want 0 / Connecting...", v.Performance, v.LastSeen)
		}

		clock.Advance(3 * time.Second)

		got, err := m.Get(v.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status != StatusOnline {
			t.Errorf("Status after connect = %q, want online", got.Status)
		}
		if got.Performance < 80 || got.Performance > 99 {
			t.Errorf("Performance = %d, want 80-99", got.Performance)
		}
		if got.LastSeen != "Just now" {
			t.Errorf("LastSeen = %q, want Just now", got.LastSeen)
		}

		titles := rec.titles()
		if len(titles) != 2 || titles[0] != "Connecting to Edge Node Beta..." || titles[1] != "Edge Node Beta connected!" {
			t.Errorf("notifications = %v", titles)
		}
	})
}

func TestManager_ListAndCounts(t *testing.T) {
	m, _, _ := newTestManager(t, Seed())

	all, err := m.List(Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 9 {
		t.Fatalf("List() len = %d, want 9", len(all))
	}

	t.Run("search matches name or os, case-insensitive", func(t *testing.T) {
		byName, _ := m.List(Query{Search: "EDGE"})
		if len(byName) != 2 {
			t.Errorf("search EDGE matched %d, want 2 (Edge Node Alpha, Raspberry Pi Edge)", len(byName))
		}
		byOS, _ := m.List(Query{Search: "ubuntu"})
		if len(byOS) != 1 || byOS[0].Name != "Production Server #1" {
			t.Errorf("search ubuntu = %v", byOS)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		online, _ := m.List(Query{Status: StatusOnline})
		if len(online) != 6 {
			t.Errorf("online = %d, want 6", len(online))
		}
		offline, _ := m.List(Query{Status: StatusOffline})
		if len(offline) != 1 || offline[0].Name != "Raspberry Pi Edge" {
			t.Errorf("offline = %v", offline)
		}
		syncing, _ := m.List(Query{Status: StatusSyncing})
		if len(syncing) != 1 || syncing[0].Name != "IoT Gateway Hub" {
			t.Errorf("syncing = %v", syncing)
		}
	})

	t.Run("search and status combine", func(t *testing.T) {
		got, _ := m.List(Query{Search: "edge", Status: StatusOnline})
		if len(got) != 1 || got[0].Name != "Edge Node Alpha" {
			t.Errorf("combined filter = %v", got)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		if _, err := m.List(Query{Status: Status("sleeping")}); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("List() error = %v, want ErrInvalidStatus", err)
		}
	})

	counts := m.Counts()
	want := Counts{Total: 9, Online: 6, Offline: 1, Syncing: 1}
	if counts != want {
		t.Errorf("Counts() = %+v, want %+v", counts, want)
	}
}

func TestManager_RefreshAll(t *testing.T) {
	m, clock, rec := newTestManager(t, Seed())

	before, _ := m.List(Query{})
	perfBefore := make(map[int64]int, len(before))
	for _, v := range before {
		perfBefore[v.ID] = v.Performance
	}

	m.RefreshAll()

	// Nothing changes until the refresh delay elapses.
	mid, _ := m.List(Query{})
	for _, v := range mid {
		if v.Performance != perfBefore[v.ID] {
			t.Fatalf("device %d changed before refresh completed", v.ID)
		}
	}

	clock.Advance(1500 * time.Millisecond)

	after, _ := m.List(Query{})
	for _, v := range after {
		switch v.Status {
		case StatusOnline:
			delta := v.Performance - perfBefore[v.ID]
			if delta < 0 || delta > 4 {
				t.Errorf("device %d bump = %d, want 0-4", v.ID, delta)
			}
			if v.Performance > 100 {
				t.Errorf("device %d performance %d exceeds 100", v.ID, v.Performance)
			}
			if v.LastSeen != "Just now" {
				t.Errorf("device %d LastSeen = %q, want Just now", v.ID, v.LastSeen)
			}
		default:
			if v.Performance != perfBefore[v.ID] {
				t.Errorf("non-online device %d changed by refresh", v.ID)
			}
		}
	}

	titles := rec.titles()
	if len(titles) != 2 || titles[0] != "Refreshing devices..." || titles[1] != "Devices refreshed!" {
		t.Errorf("notifications = %v", titles)
	}
}

func TestManager_RefreshReplacesPending(t *testing.T) {
	m, clock, rec := newTestManager(t, Seed())

	m.RefreshAll()
	m.RefreshAll()
	clock.Advance(2 * time.Second)

	// Two loading toasts but only one completed sweep.
	done := 0
	for _, title := range rec.titles() {
		if title == "Devices refreshed!" {
			done++
		}
	}
	if done != 1 {
		t.Errorf("completed refreshes = %d, want 1", done)
	}
}

func TestManager_Fail(t *testing.T) {
	m, _, rec := newTestManager(t, Seed())

	v, err := m.Fail(1, "heartbeat timeout")
	if err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if v.Status != StatusOffline || v.Performance != 0 {
		t.Errorf("failed device = %q/%d, want offline/0", v.Status, v.Performance)
	}

	n := rec.last()
	if n.Kind != notify.KindError || n.Title != "Edge Node Alpha went offline" {
		t.Errorf("notification = %+v", n)
	}

	if _, err := m.Fail(404, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fail(missing) error = %v, want ErrNotFound", err)
	}
}

func TestManager_RemoveMidConnect(t *testing.T) {
	m, clock, _ := newTestManager(t, nil)

	v, err := m.Add("Doomed Device", "Linux", TypeEdge)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := m.Remove(v.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	// The connect timer must not resurrect the removed device.
	clock.Advance(time.Minute)
	if _, err := m.Get(v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after remove error = %v, want ErrNotFound", err)
	}
	if got := m.Counts().Total; got != 0 {
		t.Errorf("Counts().Total = %d, want 0", got)
	}
}

func TestManager_Reconnect(t *testing.T) {
	m, clock, _ := newTestManager(t, Seed())

	// Raspberry Pi Edge (id 7) is offline in the seed.
	v, err := m.Reconnect(7)
	if err != nil {
		t.Fatalf("Reconnect() error = %v", err)
	}
	if v.Status != StatusSyncing {
		t.Errorf("Status = %q, want syncing", v.Status)
	}

	// A second reconnect replaces the first attempt, not stacks it.
	if _, err := m.Reconnect(7); err != nil {
		t.Fatalf("second Reconnect() error = %v", err)
	}

	clock.Advance(3 * time.Second)

	got, _ := m.Get(7)
	if got.Status != StatusOnline {
		t.Errorf("Status after reconnect = %q, want online", got.Status)
	}
	if got.Performance < 80 {
		t.Errorf("Performance = %d, want >= 80", got.Performance)
	}

	if _, err := m.Reconnect(404); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reconnect(missing) error = %v, want ErrNotFound", err)
	}
}
