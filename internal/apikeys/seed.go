package apikeys

import (
	"time"

	"github.com/edgefleet/console-core/internal/lifecycle"
)

// Seed returns the demo key set. Seeded secrets are placeholders; only
// keys generated at runtime carry real random material.
func Seed() []lifecycle.Entity[Key] {
	base := time.Date(2024, time.August, 5, 9, 0, 0, 0, time.UTC)
	rows := []struct {
		name     string
		secret   string
		created  string
		lastUsed string
		status   lifecycle.Status
	}{
		{"Production API Key", "sk_live_xxxxxxxxxxxxxxxxxxxxx", "Dec 1, 2024", "2 hours ago", lifecycle.StatusSucceeded},
		{"Development Key", "sk_dev_xxxxxxxxxxxxxxxxxxxxx", "Nov 15, 2024", "5 min ago", lifecycle.StatusSucceeded},
		{"Testing Key", "sk_test_xxxxxxxxxxxxxxxxxxxxx", "Oct 20, 2024", "3 days ago", lifecycle.StatusSucceeded},
		{"Legacy Key (Deprecated)", "sk_old_xxxxxxxxxxxxxxxxxxxxx", "Aug 5, 2024", "30 days ago", lifecycle.StatusFailed},
	}

	out := make([]lifecycle.Entity[Key], len(rows))
	for i, r := range rows {
		progress := 100
		if r.status != lifecycle.StatusSucceeded {
			progress = 0
		}
		out[i] = lifecycle.Entity[Key]{
			ID: int64(i + 1),
			Payload: Key{
				Name:     r.name,
				Secret:   r.secret,
				Created:  r.created,
				LastUsed: r.lastUsed,
			},
			Status:    r.status,
			Progress:  progress,
			CreatedAt: base.Add(time.Duration(len(rows)-i) * time.Hour),
		}
	}
	return out
}
