// Package fleet manages the device fleet: edge nodes, mobile test devices,
// and servers that run deployed models.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────┐
//	│                     Manager                        │
//	│                                                    │
//	│   Add ──▶ syncing ──(connect run)──▶ online        │
//	│   Reconnect ──▶ syncing ──▶ online                 │
//	│   Fail ──▶ offline                                 │
//	│   RefreshAll ──(one timer)──▶ bump online devices  │
//	│   Remove ──▶ gone (in-flight connect discarded)    │
//	└────────────────────────────────────────────────────┘
//
// Device state lives in a lifecycle.Collection; this package maps between
// the engine's generic statuses and the fleet vocabulary (online, offline,
// syncing) and owns the fleet-specific side effects: notifications and
// telemetry samples.
//
// # Connection simulation
//
// A new device starts syncing with zero performance and flips online after
// the configured connect delay, landing with a performance score in the
// 80-99 range. A fleet refresh nudges every online device's score up by
// 0-4 points, capped at 100.
package fleet
