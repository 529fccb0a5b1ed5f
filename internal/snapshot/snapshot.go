// Package snapshot persists the minimal session state needed to resume a
// booking across a process restart: the state name, identifiers, endpoint
// and the selected/last-seen coordinates.
package snapshot

import (
	"context"
	"encoding/json"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Snapshot struct {
	State       string       `json:"bookingState"`
	RequestID   string       `json:"requestId,omitempty"`
	BookingID   string       `json:"bookingId,omitempty"`
	Endpoint    string       `json:"endpoint,omitempty"`
	Start       *Coordinates `json:"start,omitempty"`
	Destination *Coordinates `json:"destination,omitempty"`
	Driver      *Coordinates `json:"driver,omitempty"`
}

// Store persists snapshots. Load reports absence with a false second value
// rather than an error; a corrupt payload counts as absent.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
	Clear(ctx context.Context) error
}

func encode(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func decode(raw []byte) (Snapshot, bool) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false
	}

	return snap, true
}
