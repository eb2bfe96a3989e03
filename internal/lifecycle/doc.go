// Package lifecycle provides the Task and Entity State Engine for EdgeFleet
// Console Core.
//
// Every dashboard collection (devices, API keys, deployments, conversions)
// tracks entities that move through simulated long-running operations. This
// package generalises that pattern into four cooperating pieces:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│                         Collection[P]                                 │
//	│                                                                       │
//	│  ┌─────────────┐   ┌─────────────┐   ┌─────────────┐   ┌──────────┐  │
//	│  │  Allocator  │   │   Store[P]  │   │  Runner[P]  │   │ Project  │  │
//	│  │(allocator.go)│  │  (store.go) │◀──│ (runner.go) │   │(project.go)│ │
//	│  │             │   │             │   │             │   │          │  │
//	│  │ • unique ids│   │ • ordered   │   │ • run handle│   │ • pure   │  │
//	│  │ • monotonic │   │   entities  │   │   per id    │   │   filter │  │
//	│  └─────────────┘   │ • patches   │   │ • timed     │   └──────────┘  │
//	│                    └─────────────┘   │   steps     │                 │
//	│                                      └─────────────┘                 │
//	└──────────────────────────────────────────────────────────────────────┘
//
// # Key rules
//
//   - The Store exclusively owns entity data. The Runner holds only run
//     handles keyed by id and always reads/writes through the Store, so the
//     displayed state can never drift from the running state.
//   - Replace-not-stack: starting a run for an id that already has one
//     cancels the old handle first. At most one live handle per id.
//   - Deletion always wins: a tick that fires after its entity was removed
//     cancels itself without applying anything. This race is expected and
//     silently absorbed.
//   - Progress is monotonic while running, clamped to [0,100], snapped to
//     100 on success and frozen on cancellation.
//
// # Usage
//
//	col := lifecycle.NewCollection(lifecycle.Options[Device]{
//	    SearchFields: func(d Device) []string { return []string{d.Name, d.OS} },
//	})
//	id := col.CreateAndStart(dev, lifecycle.StatusRunning, lifecycle.RunConfig[Device]{
//	    Interval: 3 * time.Second,
//	    Step:     lifecycle.FixedStep(100),
//	    OnComplete: func() lifecycle.Patch[Device] { ... },
//	})
//
// # Thread Safety
//
// All exported types are safe for concurrent use. Timer callbacks and API
// handlers may interleave freely; per-id tick ordering is guaranteed by the
// single-handle rule.
package lifecycle
