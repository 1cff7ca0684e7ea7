package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/repository"
)

// EventRepository implements repository.EventRepository for SQLite. The
// log is append-only; rows are never updated or deleted individually.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts the event and assigns the next sequence number for its
// project. The UNIQUE(project_id, seq) constraint turns a concurrent
// append race into a conflict instead of a gap.
func (r *EventRepository) Append(ctx context.Context, evt *timeline.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next uint64
	seqQuery := `SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE project_id = ?`
	if err := tx.QueryRowContext(ctx, seqQuery, evt.ProjectID).Scan(&next); err != nil {
		return fmt.Errorf("failed to compute next sequence: %w", err)
	}

	query := `
		INSERT INTO events (id, project_id, seq, date, type, label, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		evt.ID,
		evt.ProjectID,
		next,
		evt.Date,
		evt.Type,
		evt.Label,
		string(evt.Payload),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}

	evt.Seq = next
	return nil
}

// List returns events with seq > afterSeq, oldest first
func (r *EventRepository) List(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]timeline.Event, error) {
	query := `
		SELECT id, project_id, seq, date, type, label, payload
		FROM events
		WHERE project_id = ? AND seq > ?
		ORDER BY seq ASC
	`
	args := []any{projectID, afterSeq}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []timeline.Event
	for rows.Next() {
		var evt timeline.Event
		var payload string
		if err := rows.Scan(
			&evt.ID,
			&evt.ProjectID,
			&evt.Seq,
			&evt.Date,
			&evt.Type,
			&evt.Label,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		evt.Payload = json.RawMessage(payload)
		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
