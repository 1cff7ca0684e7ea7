package timeline

import (
	"context"

	"github.com/maraval/coprojet/internal/domain/activity"
)

// EventRepository persists the append-only event log. Append assigns the
// next sequence number within the project.
type EventRepository interface {
	Append(ctx context.Context, evt *Event) error
	List(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]Event, error)
}

// ActivityRepository logs timeline activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
