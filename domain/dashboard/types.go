package dashboard

import (
	"encoding/json"

	"sheetlens/domain/core"
)

// Version is an immutable snapshot of a dashboard's layout/configuration.
// Snapshots are opaque to the engine; the store round-trips them verbatim.
type Version struct {
	ID        core.ID         `json:"id"`
	Note      string          `json:"note,omitempty"`
	Snapshot  json.RawMessage `json:"snapshot"`
	CreatedAt core.Timestamp  `json:"created_at"`
}

// SavedDashboard aggregates a named dashboard and its version history.
// Versions are append-only; existing snapshots are never rewritten.
type SavedDashboard struct {
	ID          core.ID        `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Versions    []Version      `json:"versions"`
	CreatedAt   core.Timestamp `json:"created_at"`
	UpdatedAt   core.Timestamp `json:"updated_at"`
}

// New creates a dashboard with no versions yet
func New(name, description string) *SavedDashboard {
	now := core.Now()
	return &SavedDashboard{
		ID:          core.NewID(),
		Name:        name,
		Description: description,
		Versions:    []Version{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddVersion appends an immutable snapshot and returns it
func (d *SavedDashboard) AddVersion(note string, snapshot json.RawMessage) Version {
	v := Version{
		ID:        core.NewID(),
		Note:      note,
		Snapshot:  snapshot,
		CreatedAt: core.Now(),
	}
	d.Versions = append(d.Versions, v)
	d.UpdatedAt = core.Now()
	return v
}

// LatestVersion returns the most recent snapshot, if any
func (d *SavedDashboard) LatestVersion() (Version, bool) {
	if len(d.Versions) == 0 {
		return Version{}, false
	}
	return d.Versions[len(d.Versions)-1], true
}
