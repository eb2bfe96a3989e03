package lifecycle

import (
	"testing"
	"time"
)

func newTestCollection(clock Clock, seed ...Entity[testPayload]) *Collection[testPayload] {
	return NewCollection(Options[testPayload]{
		Clock:        clock,
		SearchFields: payloadFields,
		Seed:         seed,
	})
}

func TestCollection_Create(t *testing.T) {
	c := newTestCollection(NewManualClock(),
		entity(5, "seeded", StatusSucceeded),
	)

	e := c.Create(testPayload{Name: "fresh"}, StatusRunning, 0)

	// Ids continue above the seeded data.
	if e.ID != 6 {
		t.Errorf("ID = %d, want 6", e.ID)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	// Newest entity leads the list.
	got := ids(c.List())
	if !equalIDs(got, []int64{6, 5}) {
		t.Errorf("List() ids = %v, want [6 5]", got)
	}
}

func TestCollection_CreateAndStart(t *testing.T) {
	clock := NewManualClock()
	c := newTestCollection(clock)

	e := c.CreateAndStart(testPayload{Name: "job"}, StatusRunning, 0, RunConfig[testPayload]{
		Interval: time.Second,
		Step:     FixedStep(50),
	})

	if !c.Running(e.ID) {
		t.Fatal("Running() = false right after CreateAndStart")
	}

	clock.Advance(2 * time.Second)

	got, _ := c.Get(e.ID)
	if got.Progress != 100 || got.Status != StatusSucceeded {
		t.Errorf("entity after run = %v/%d, want succeeded/100", got.Status, got.Progress)
	}
	if c.Running(e.ID) {
		t.Error("Running() = true after completion")
	}
}

func TestCollection_StartUnknownID(t *testing.T) {
	c := newTestCollection(NewManualClock())

	if c.Start(42, RunConfig[testPayload]{Interval: time.Second}) {
		t.Error("Start() = true for unknown id, want false")
	}
	if c.Running(42) {
		t.Error("Running() = true for unknown id")
	}
}

func TestCollection_RemoveDiscardsRun(t *testing.T) {
	clock := NewManualClock()
	c := newTestCollection(clock)

	e := c.CreateAndStart(testPayload{Name: "job"}, StatusRunning, 0, RunConfig[testPayload]{
		Interval: time.Second,
		Step:     FixedStep(10),
	})
	clock.Advance(3 * time.Second)

	if !c.Remove(e.ID) {
		t.Fatal("Remove() = false, want true")
	}
	if c.Running(e.ID) {
		t.Error("Running() = true after Remove")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get(e.ID); ok {
		t.Error("removed entity reappeared")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCollection_Project(t *testing.T) {
	c := newTestCollection(NewManualClock())
	c.Create(testPayload{Name: "Edge Server", OS: "Linux"}, StatusSucceeded, 100)
	c.Create(testPayload{Name: "Mobile X1", OS: "Android"}, StatusRunning, 40)

	got := c.Project(Query{Search: "edge"})
	if len(got) != 1 || got[0].Payload.Name != "Edge Server" {
		t.Errorf("Project() = %v, want the edge server only", got)
	}

	// Empty query lists everything, newest first.
	all := c.Project(Query{})
	if len(all) != 2 || all[0].Payload.Name != "Mobile X1" {
		t.Errorf("Project(empty) order wrong: %v", all)
	}
}

func TestCollection_OnChangeSeesTicks(t *testing.T) {
	clock := NewManualClock()

	var kinds []ChangeKind
	c := NewCollection(Options[testPayload]{
		Clock:        clock,
		SearchFields: payloadFields,
		OnChange: func(kind ChangeKind, e Entity[testPayload]) {
			kinds = append(kinds, kind)
		},
	})

	e := c.CreateAndStart(testPayload{Name: "job"}, StatusRunning, 0, RunConfig[testPayload]{
		Interval: time.Second,
		Step:     FixedStep(50),
	})
	clock.Advance(2 * time.Second)
	c.Remove(e.ID)

	// created, two timer-driven updates (50, 100), removed.
	want := []ChangeKind{ChangeCreated, ChangeUpdated, ChangeUpdated, ChangeRemoved}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestCollection_CancelAppliesPatchOnce(t *testing.T) {
	clock := NewManualClock()
	c := newTestCollection(clock)

	e := c.CreateAndStart(testPayload{Name: "job"}, StatusRunning, 0, RunConfig[testPayload]{
		Interval: time.Second,
		Step:     FixedStep(10),
	})
	clock.Advance(2 * time.Second)

	patches := 0
	cancel := func(ent *Entity[testPayload]) {
		patches++
		ent.Status = StatusCancelled
	}

	if !c.Cancel(e.ID, cancel) {
		t.Fatal("Cancel() = false, want true")
	}
	if c.Cancel(e.ID, cancel) {
		t.Error("second Cancel() = true, want false")
	}
	if patches != 1 {
		t.Errorf("cancel patch applied %d times, want 1", patches)
	}

	got, _ := c.Get(e.ID)
	if got.Status != StatusCancelled || got.Progress != 20 {
		t.Errorf("entity = %v/%d, want cancelled/20", got.Status, got.Progress)
	}
}
