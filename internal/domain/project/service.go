package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/repository"
)

// Service handles project operations.
type Service struct {
	projects   Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{projects: projects, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID           string
	Name         string
	Description  string
	DeedDate     time.Time
	Participants []participant.Participant
	Params       finance.ProjectParams
}

// SaveSnapshotRequest replaces the project baseline. BaseVersion is the
// version the caller read; a stale one yields conflict info unless Force
// is set.
type SaveSnapshotRequest struct {
	ProjectID    string
	Participants []participant.Participant
	Params       finance.ProjectParams
	DeedDate     time.Time
	BaseVersion  int64
	Force        bool
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if err := participant.ValidateAll(req.Participants); err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	proj := &Project{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		DeedDate:     req.DeedDate,
		Participants: req.Participants,
		Params:       req.Params,
		Version:      1,
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			ProjectID: proj.ID,
			Type:      activity.TypeProjectCreated,
			Summary:   fmt.Sprintf("created project %q", proj.Name),
			Version:   proj.Version,
		})
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	return s.projects.List(ctx)
}

// SaveSnapshot replaces the participant baseline and parameters, bumping
// the version. A stale BaseVersion returns conflict info and the stored
// project untouched; callers resolve and retry.
func (s *Service) SaveSnapshot(ctx context.Context, req SaveSnapshotRequest) (*Project, *ConflictInfo, error) {
	if strings.TrimSpace(req.ProjectID) == "" {
		return nil, nil, ErrInvalidInput
	}
	if err := participant.ValidateAll(req.Participants); err != nil {
		return nil, nil, err
	}

	current, err := s.projects.Get(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}

	if current.Version != req.BaseVersion && !req.Force {
		if s.activities != nil {
			_ = s.activities.Log(ctx, &activity.Entry{
				ProjectID: current.ID,
				Type:      activity.TypeConflictDetected,
				Summary:   fmt.Sprintf("snapshot against version %d, project at %d", req.BaseVersion, current.Version),
				Version:   current.Version,
			})
		}
		return nil, &ConflictInfo{
			BaseVersion:    req.BaseVersion,
			CurrentVersion: current.Version,
			Remote:         current,
			Message:        "project modified since snapshot was taken",
		}, nil
	}

	updated := *current
	updated.Participants = req.Participants
	updated.Params = req.Params
	if !req.DeedDate.IsZero() {
		updated.DeedDate = req.DeedDate
	}
	updated.Version = current.Version + 1
	updated.ModifiedAt = time.Now()

	if err := s.projects.Update(ctx, &updated, current.Version); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, nil, ErrConflict
		}
		return nil, nil, fmt.Errorf("saving snapshot: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			ProjectID: updated.ID,
			Type:      activity.TypeSnapshotSaved,
			Summary:   fmt.Sprintf("saved snapshot with %d participants", len(updated.Participants)),
			Version:   updated.Version,
		})
	}

	return &updated, nil, nil
}

// Compute runs the full cost calculation on the stored baseline.
func (s *Service) Compute(ctx context.Context, projectID string) (finance.CalculationResults, error) {
	proj, err := s.Get(ctx, projectID)
	if err != nil {
		return finance.CalculationResults{}, err
	}
	return finance.CalculateAll(proj.Participants, proj.Params, proj.Params.Units), nil
}
