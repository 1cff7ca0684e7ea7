package repository

import (
	"context"

	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	Update(ctx context.Context, proj *project.Project, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

// EventRepository manages the append-only event log. Append assigns the
// per-project sequence number; List pages in sequence order.
type EventRepository interface {
	Append(ctx context.Context, evt *timeline.Event) error
	List(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]timeline.Event, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
