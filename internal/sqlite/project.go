package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite.
// Participants and params are stored as JSON documents; the version column
// carries the optimistic concurrency check.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	participants, params, err := marshalBaseline(proj)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (id, name, description, deed_date, participants, params, version, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.DeedDate,
		participants,
		params,
		proj.Version,
		proj.CreatedAt,
		proj.ModifiedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, description, deed_date, participants, params, version, created_at, modified_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	var description sql.NullString
	var deedDate sql.NullTime
	var participants, params []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&description,
		&deedDate,
		&participants,
		&params,
		&proj.Version,
		&proj.CreatedAt,
		&proj.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.Description = description.String
	if deedDate.Valid {
		proj.DeedDate = deedDate.Time
	}
	if err := unmarshalBaseline(participants, params, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// List returns all projects with summary information
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.version,
			p.participants,
			p.created_at,
			p.modified_at,
			COUNT(e.id) as event_count
		FROM projects p
		LEFT JOIN events e ON e.project_id = p.id
		GROUP BY p.id, p.name, p.description, p.version, p.participants, p.created_at, p.modified_at
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		var description sql.NullString
		var participants []byte
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&description,
			&summary.Version,
			&participants,
			&summary.CreatedAt,
			&summary.ModifiedAt,
			&summary.EventCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.Description = description.String

		var people []participant.Participant
		if len(participants) > 0 {
			if err := json.Unmarshal(participants, &people); err != nil {
				return nil, fmt.Errorf("failed to decode participants for %s: %w", summary.ID, err)
			}
		}
		summary.Participants = len(people)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Update writes a project with optimistic concurrency control
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project, expectedVersion int64) error {
	participants, params, err := marshalBaseline(proj)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = ?, description = ?, deed_date = ?, participants = ?, params = ?,
		    version = ?, modified_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Description,
		proj.DeedDate,
		participants,
		params,
		proj.Version,
		proj.ModifiedAt,
		proj.ID,
		expectedVersion,
	)

	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, checkQuery, proj.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check project existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		// Project exists but version doesn't match
		return repository.ErrConflict
	}

	return nil
}

// Delete removes a project and its event log
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_log WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project activity: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit()
}

func marshalBaseline(proj *project.Project) (participants, params []byte, err error) {
	people := proj.Participants
	if people == nil {
		people = []participant.Participant{}
	}
	participants, err = json.Marshal(people)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode participants: %w", err)
	}
	params, err = json.Marshal(proj.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode params: %w", err)
	}
	return participants, params, nil
}

func unmarshalBaseline(participants, params []byte, proj *project.Project) error {
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &proj.Participants); err != nil {
			return fmt.Errorf("failed to decode participants: %w", err)
		}
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &proj.Params); err != nil {
			return fmt.Errorf("failed to decode params: %w", err)
		}
	}
	return nil
}
