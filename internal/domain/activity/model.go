package activity

import "time"

// Type represents the kind of logged activity
type Type string

const (
	TypeProjectCreated   Type = "project_created"
	TypeProjectUpdated   Type = "project_updated"
	TypeSnapshotSaved    Type = "snapshot_saved"
	TypeEventAppended    Type = "event_appended"
	TypeProjectImported  Type = "project_imported"
	TypeProjectExported  Type = "project_exported"
	TypeConflictDetected Type = "conflict_detected"
)

// Entry represents one row of the audit trail
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	EventID   *string   `json:"event_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
	Version   int64     `json:"version"`
}
