package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maraval/coprojet/internal/domain/activity"
)

const listPageSize = 200

// Service handles event log business logic.
type Service struct {
	events     EventRepository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new timeline service.
func NewService(events EventRepository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{events: events, activities: activities, logger: logger}
}

// AppendRequest describes an event append request. The payload is the raw
// JSON body for the event type.
type AppendRequest struct {
	ProjectID string
	Type      Type
	Date      time.Time
	Label     string
	Payload   json.RawMessage
}

// Append validates and stores a new event. The event must carry a known
// type, a date no earlier than the log head, and a payload the reducer
// accepts against the current state; nothing uninterpretable reaches the
// log.
func (s *Service) Append(ctx context.Context, req AppendRequest) (*Event, error) {
	if strings.TrimSpace(req.ProjectID) == "" || req.Date.IsZero() {
		return nil, ErrInvalidInput
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, req.Type)
	}

	existing, err := s.All(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading event log: %w", err)
	}
	if n := len(existing); n > 0 && req.Date.Before(existing[n-1].Date) {
		return nil, fmt.Errorf("event dated %s precedes log head: %w",
			req.Date.Format("2006-01-02"), ErrEventOrder)
	}

	evt := Event{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Date:      req.Date,
		Type:      req.Type,
		Label:     req.Label,
		Payload:   req.Payload,
	}

	state, err := Reduce(existing)
	if err != nil {
		return nil, fmt.Errorf("replaying event log: %w", err)
	}
	if _, err := Apply(state, evt); err != nil {
		return nil, err
	}

	if err := s.events.Append(ctx, &evt); err != nil {
		return nil, fmt.Errorf("appending event: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			ProjectID: req.ProjectID,
			EventID:   &evt.ID,
			Type:      activity.TypeEventAppended,
			Summary:   fmt.Sprintf("appended %s at %s", evt.Type, evt.Date.Format("2006-01-02")),
			Version:   int64(evt.Seq),
		})
	}
	return &evt, nil
}

// List returns one page of events after the given sequence number.
func (s *Service) List(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]Event, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > listPageSize {
		limit = listPageSize
	}
	return s.events.List(ctx, projectID, afterSeq, limit)
}

// All returns the full event log in sequence order.
func (s *Service) All(ctx context.Context, projectID string) ([]Event, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrInvalidInput
	}
	var all []Event
	var lastSeq uint64
	for {
		page, err := s.events.List(ctx, projectID, lastSeq, listPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		lastSeq = page[len(page)-1].Seq
	}
}

// CurrentState replays the full log into the latest snapshot.
func (s *Service) CurrentState(ctx context.Context, projectID string) (ProjectionState, error) {
	events, err := s.All(ctx, projectID)
	if err != nil {
		return ProjectionState{}, err
	}
	return Reduce(events)
}

// States replays the full log and returns the state after each event.
func (s *Service) States(ctx context.Context, projectID string) ([]ProjectionState, error) {
	events, err := s.All(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return Replay(events)
}
