package project

import (
	"context"

	"github.com/maraval/coprojet/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	Update(ctx context.Context, proj *Project, expectedVersion int64) error
}

// ActivityRepository records project lifecycle entries.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
