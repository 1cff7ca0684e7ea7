package exchange

import (
	"time"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// SchemaVersion is the envelope schema this release writes.
const SchemaVersion = 2

// Envelope is the portable JSON form of a project: the baseline snapshot
// plus the full event log. Pointer fields make absent keys detectable so
// imports of truncated files fail with a field name instead of zero
// values.
type Envelope struct {
	Version        int                       `json:"version"`
	ReleaseVersion string                    `json:"release_version"`
	SavedAt        time.Time                 `json:"saved_at"`
	Name           string                    `json:"name,omitempty"`
	Description    string                    `json:"description,omitempty"`
	DeedDate       *time.Time                `json:"deed_date"`
	Participants   []participant.Participant `json:"participants"`
	Params         *finance.ProjectParams    `json:"project_params"`
	Events         []timeline.Event          `json:"events,omitempty"`
}

// Export builds the envelope for a project and its event log. The release
// version is injected by the caller; the envelope never reads it from a
// global.
func Export(proj *project.Project, events []timeline.Event, releaseVersion string) Envelope {
	deed := proj.DeedDate
	params := proj.Params
	return Envelope{
		Version:        SchemaVersion,
		ReleaseVersion: releaseVersion,
		SavedAt:        time.Now().UTC(),
		Name:           proj.Name,
		Description:    proj.Description,
		DeedDate:       &deed,
		Participants:   proj.Participants,
		Params:         &params,
		Events:         events,
	}
}
