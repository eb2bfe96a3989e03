// Package notify implements the fire-and-forget notification side of the
// console: domain managers report user-facing events here and carry on,
// never blocking on delivery and never failing because a sink did.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────┐
//	│                      Hub                        │
//	│                                                 │
//	│   Notify(n) ──▶ recent ring buffer (capped)     │
//	│        │                                        │
//	│        └──▶ sinks (async, errors logged only)   │
//	│              ├── websocket broadcast            │
//	│              ├── MQTT publish                   │
//	│              └── ...                            │
//	└─────────────────────────────────────────────────┘
//
// A notification's outcome never feeds back into entity state: a failed
// MQTT publish does not fail the deployment that triggered it.
package notify
