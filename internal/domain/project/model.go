package project

import (
	"time"

	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
)

// Project is the persisted aggregate: the participant baseline and global
// parameters the calculators run on, with a version bumped on every write.
type Project struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Description  string                    `json:"description,omitempty"`
	DeedDate     time.Time                 `json:"deed_date"`
	Participants []participant.Participant `json:"participants"`
	Params       finance.ProjectParams     `json:"params"`
	Version      int64                     `json:"version"`
	CreatedAt    time.Time                 `json:"created_at"`
	ModifiedAt   time.Time                 `json:"modified_at"`
}

// ProjectSummary is a lightweight representation for listing.
type ProjectSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Version      int64     `json:"version"`
	Participants int       `json:"participants"`
	EventCount   int       `json:"event_count"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
