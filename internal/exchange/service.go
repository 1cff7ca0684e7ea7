package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/repository"
)

const exportPageSize = 200

// Service moves whole projects across the process boundary as JSON
// envelopes.
type Service struct {
	projects   repository.ProjectRepository
	events     repository.EventRepository
	activities repository.ActivityRepository
	release    string
	logger     *slog.Logger
}

// NewService creates a new exchange service. release is the running
// release version stamped into exports and checked on imports.
func NewService(projects repository.ProjectRepository, events repository.EventRepository, activities repository.ActivityRepository, release string, logger *slog.Logger) *Service {
	return &Service{
		projects:   projects,
		events:     events,
		activities: activities,
		release:    release,
		logger:     logger,
	}
}

// ExportProject loads a project and its full event log into an envelope.
func (s *Service) ExportProject(ctx context.Context, projectID string) (Envelope, error) {
	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if err == repository.ErrNotFound {
			return Envelope{}, project.ErrProjectNotFound
		}
		return Envelope{}, fmt.Errorf("loading project: %w", err)
	}

	var events []timeline.Event
	var lastSeq uint64
	for {
		page, err := s.events.List(ctx, projectID, lastSeq, exportPageSize)
		if err != nil {
			return Envelope{}, fmt.Errorf("loading event log: %w", err)
		}
		if len(page) == 0 {
			break
		}
		events = append(events, page...)
		lastSeq = page[len(page)-1].Seq
	}

	env := Export(proj, events, s.release)

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			ProjectID: projectID,
			Type:      activity.TypeProjectExported,
			Summary:   fmt.Sprintf("exported %q with %d events", proj.Name, len(events)),
			Version:   proj.Version,
		})
	}

	if s.logger != nil {
		s.logger.Info("project exported", "project_id", projectID, "events", len(events))
	}
	return env, nil
}

// ImportProject validates an envelope and stores it as a new project. The
// imported log is replayed before anything is written so a file that does
// not reduce cleanly never reaches storage. Events get fresh identifiers;
// importing the same file twice yields two independent projects.
func (s *Service) ImportProject(ctx context.Context, data []byte) (*project.Project, error) {
	env, err := Import(data, s.release)
	if err != nil {
		return nil, err
	}

	if _, err := timeline.Reduce(env.Events); err != nil {
		return nil, fmt.Errorf("replaying imported log: %w", err)
	}

	name := env.Name
	if name == "" {
		name = fmt.Sprintf("Imported %s", env.SavedAt.Format("2006-01-02"))
	}

	now := time.Now()
	proj := &project.Project{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  env.Description,
		DeedDate:     *env.DeedDate,
		Participants: env.Participants,
		Params:       *env.Params,
		Version:      1,
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("storing imported project: %w", err)
	}

	for i := range env.Events {
		evt := env.Events[i]
		evt.ID = uuid.NewString()
		evt.ProjectID = proj.ID
		evt.Seq = 0
		if err := s.events.Append(ctx, &evt); err != nil {
			return nil, fmt.Errorf("storing imported event %d: %w", i, err)
		}
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			ProjectID: proj.ID,
			Type:      activity.TypeProjectImported,
			Summary:   fmt.Sprintf("imported %q with %d events", proj.Name, len(env.Events)),
			Version:   proj.Version,
		})
	}

	if s.logger != nil {
		s.logger.Info("project imported", "project_id", proj.ID, "events", len(env.Events))
	}
	return proj, nil
}
