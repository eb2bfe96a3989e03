package fleet

import (
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// DeviceType classifies the hardware a device represents.
type DeviceType string

const (
	TypeEdge   DeviceType = "edge"
	TypeMobile DeviceType = "mobile"
	TypeServer DeviceType = "server"
)

// Valid reports whether the type is one of the known device types.
func (t DeviceType) Valid() bool {
	switch t {
	case TypeEdge, TypeMobile, TypeServer:
		return true
	}
	return false
}

// Status is the fleet-facing device status vocabulary.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusSyncing Status = "syncing"
)

// Valid reports whether the status is one of the known device statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusSyncing:
		return true
	}
	return false
}

// Device is the fleet payload stored per entity.
type Device struct {
	Name        string     `json:"name"`
	OS          string     `json:"os"`
	Type        DeviceType `json:"type"`
	Performance int        `json:"performance"`
	LastSeen    string     `json:"last_seen"`
}

// View is the externally visible shape of a device, with the engine status
// translated into the fleet vocabulary.
type View struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	OS          string     `json:"os"`
	Type        DeviceType `json:"type"`
	Status      Status     `json:"status"`
	Performance int        `json:"performance"`
	LastSeen    string     `json:"last_seen"`
	AddedAt     time.Time  `json:"added_at"`
}

// Counts is the aggregate fleet health summary shown on the stats bar.
type Counts struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
	Syncing int `json:"syncing"`
}

// statusOf maps an engine status onto the fleet vocabulary. A device with
// an in-flight connect run is syncing; a failed or cancelled one is offline.
func statusOf(s lifecycle.Status) Status {
	switch s {
	case lifecycle.StatusSucceeded:
		return StatusOnline
	case lifecycle.StatusRunning, lifecycle.StatusQueued:
		return StatusSyncing
	default:
		return StatusOffline
	}
}

// engineStatus maps a fleet status filter onto the engine status it selects.
func engineStatus(s Status) lifecycle.Status {
	switch s {
	case StatusOnline:
		return lifecycle.StatusSucceeded
	case StatusSyncing:
		return lifecycle.StatusRunning
	case StatusOffline:
		return lifecycle.StatusFailed
	default:
		return ""
	}
}

// ViewOf converts an engine entity into the device-facing view. Exported
// for change-observer wiring (WebSocket broadcasts).
func ViewOf(e lifecycle.Entity[Device]) View {
	return View{
		ID:          e.ID,
		Name:        e.Payload.Name,
		OS:          e.Payload.OS,
		Type:        e.Payload.Type,
		Status:      statusOf(e.Status),
		Performance: e.Payload.Performance,
		LastSeen:    e.Payload.LastSeen,
		AddedAt:     e.CreatedAt,
	}
}

func viewsOf(entities []lifecycle.Entity[Device]) []View {
	out := make([]View, len(entities))
	for i, e := range entities {
		out[i] = ViewOf(e)
	}
	return out
}
