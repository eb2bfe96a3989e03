// Package deploy manages model deployment jobs and the model catalog.
//
// A deployment pushes a model artifact to one of four target classes and
// advances through a fixed-step simulated rollout:
//
//	Deploy ──▶ running ──(+10 / tick)──▶ succeeded
//	              │
//	              ├─ Cancel ──▶ cancelled (progress frozen)
//	              └─ Fail ────▶ failed    (error + "View Logs" action)
//
// The catalog keeps the most recent model artifacts. Models arrive by
// direct upload or by a simulated import from URL; either way the newest
// entry lands first and the catalog is trimmed to its capacity.
package deploy
