package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/repository"
	"github.com/stretchr/testify/require"
)

func appendTestEvent(t *testing.T, repo *EventRepository, projectID string) *timeline.Event {
	t.Helper()

	evt := &timeline.Event{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Type:      timeline.TypeInitialPurchase,
		Payload:   json.RawMessage(`{}`),
	}
	require.NoError(t, repo.Append(context.Background(), evt))
	return evt
}

func TestEventRepository_Append_AssignsSequence(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, projects.Create(ctx, testProject("p1", "Les Tilleuls", createdAt)))
	require.NoError(t, projects.Create(ctx, testProject("p2", "La Grange", createdAt)))

	first := appendTestEvent(t, repo, "p1")
	second := appendTestEvent(t, repo, "p1")
	third := appendTestEvent(t, repo, "p1")

	require.Equal(t, uint64(1), first.Seq)
	require.Equal(t, uint64(2), second.Seq)
	require.Equal(t, uint64(3), third.Seq)

	// Each project has its own sequence
	other := appendTestEvent(t, repo, "p2")
	require.Equal(t, uint64(1), other.Seq)
}

func TestEventRepository_Append_MissingProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	evt := &timeline.Event{
		ID:        uuid.NewString(),
		ProjectID: "nonexistent",
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Type:      timeline.TypeInitialPurchase,
		Payload:   json.RawMessage(`{}`),
	}
	err := repo.Append(ctx, evt)
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}

func TestEventRepository_List(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, projects.Create(ctx, testProject("p1", "Les Tilleuls", createdAt)))

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	evt := &timeline.Event{
		ID:        uuid.NewString(),
		ProjectID: "p1",
		Date:      date,
		Type:      timeline.TypeCoproLoanTaken,
		Label:     "Roof loan",
		Payload:   json.RawMessage(`{"amount":50000,"rate_pct":3,"years":10}`),
	}
	require.NoError(t, repo.Append(ctx, evt))

	listed, err := repo.List(ctx, "p1", 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, evt.ID, listed[0].ID)
	require.Equal(t, "p1", listed[0].ProjectID)
	require.Equal(t, uint64(1), listed[0].Seq)
	require.Equal(t, timeline.TypeCoproLoanTaken, listed[0].Type)
	require.Equal(t, "Roof loan", listed[0].Label)
	require.JSONEq(t, string(evt.Payload), string(listed[0].Payload))
	require.True(t, listed[0].Date.Equal(date))
}

func TestEventRepository_List_Paging(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, projects.Create(ctx, testProject("p1", "Les Tilleuls", createdAt)))

	for i := 0; i < 5; i++ {
		appendTestEvent(t, repo, "p1")
	}

	// First page of two
	page, err := repo.List(ctx, "p1", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, uint64(1), page[0].Seq)
	require.Equal(t, uint64(2), page[1].Seq)

	// Resume after the last seen sequence
	page, err = repo.List(ctx, "p1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, uint64(3), page[0].Seq)
	require.Equal(t, uint64(4), page[1].Seq)

	// Tail
	page, err = repo.List(ctx, "p1", 4, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, uint64(5), page[0].Seq)
}

func TestEventRepository_List_Empty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	listed, err := repo.List(ctx, "no-such-project", 0, 0)
	require.NoError(t, err)
	require.Empty(t, listed)
}
