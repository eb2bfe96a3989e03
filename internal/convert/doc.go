// Package convert manages model format conversion tasks and the quick
// optimization actions that surround them.
//
// A conversion advances by a randomized step per tick, so runs span an
// uneven number of ticks:
//
//	Start ──▶ running ──(+0..14 / tick)──▶ completed
//	             │
//	             └─ Cancel ──▶ cancelled (progress frozen, label "Cancelled")
//
// While running, each tick refreshes the task's time label with a rough
// remaining-minutes estimate derived from the current progress.
package convert
