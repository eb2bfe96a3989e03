package fleet

import (
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Seed returns the demo fleet the console boots with. Ids are fixed so the
// allocator continues above them; timestamps are staggered so "added at"
// ordering looks plausible.
func Seed() []lifecycle.Entity[Device] {
	type row struct {
		id       int64
		name     string
		os       string
		dtype    DeviceType
		status   lifecycle.Status
		perf     int
		lastSeen string
	}

	rows := []row{
		{1, "Edge Node Alpha", "Linux ARM64", TypeEdge, lifecycle.StatusSucceeded, 94, "Just now"},
		{2, "Production Server #1", "Ubuntu 22.04 LTS", TypeServer, lifecycle.StatusSucceeded, 87, "2 min ago"},
		{3, "Mobile Test Device", "iOS 17.2", TypeMobile, lifecycle.StatusSucceeded, 92, "5 min ago"},
		{4, "IoT Gateway Hub", "FreeRTOS", TypeEdge, lifecycle.StatusRunning, 78, "10 min ago"},
		{5, "Android Dev Phone", "Android 14", TypeMobile, lifecycle.StatusSucceeded, 85, "15 min ago"},
		{6, "GPU Cluster Node #3", "CentOS 8", TypeServer, lifecycle.StatusSucceeded, 96, "1 min ago"},
		{7, "Raspberry Pi Edge", "Raspbian", TypeEdge, lifecycle.StatusFailed, 0, "2 hours ago"},
		{8, "Jetson Nano Dev", "JetPack 5.1", TypeEdge, lifecycle.StatusSucceeded, 88, "3 min ago"},
		{9, "Windows Workstation", "Windows 11", TypeServer, lifecycle.StatusSucceeded, 91, "Just now"},
	}

	now := time.Now().UTC()
	out := make([]lifecycle.Entity[Device], len(rows))
	for i, r := range rows {
		progress := 0
		if r.status == lifecycle.StatusSucceeded {
			progress = 100
		}
		out[i] = lifecycle.Entity[Device]{
			ID: r.id,
			Payload: Device{
				Name:        r.name,
				OS:          r.os,
				Type:        r.dtype,
				Performance: r.perf,
				LastSeen:    r.lastSeen,
			},
			Status:    r.status,
			Progress:  progress,
			CreatedAt: now.Add(-time.Duration(len(rows)-i) * time.Hour),
		}
	}
	return out
}
