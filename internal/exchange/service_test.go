package exchange_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	"github.com/maraval/coprojet/internal/repository"
	"github.com/maraval/coprojet/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_ExportProject(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	events := &mocks.EventRepository{}
	activities := &mocks.ActivityRepository{}

	stored := sampleEvents(t)
	stored[0].Seq = 1
	projects.On("Get", ctx, "p1").Return(sampleProject(), nil)
	events.On("List", ctx, "p1", uint64(0), 200).Return(stored, nil)
	events.On("List", ctx, "p1", uint64(1), 200).Return([]timeline.Event{}, nil)
	activities.On("Log", ctx, mock.Anything).Return(nil)

	svc := exchange.NewService(projects, events, activities, "1.4.2", nil)
	env, err := svc.ExportProject(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, exchange.SchemaVersion, env.Version)
	require.Equal(t, "1.4.2", env.ReleaseVersion)
	require.Equal(t, "rue des tisserands", env.Name)
	require.Len(t, env.Events, 1)
	require.Equal(t, timeline.TypeInitialPurchase, env.Events[0].Type)
	projects.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_ExportProject_NotFound(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	projects.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)

	svc := exchange.NewService(projects, &mocks.EventRepository{}, nil, "1.4.2", nil)
	_, err := svc.ExportProject(ctx, "ghost")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestService_ImportProject(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	events := &mocks.EventRepository{}
	activities := &mocks.ActivityRepository{}

	env := exchange.Export(sampleProject(), sampleEvents(t), "1.4.2")
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var created *project.Project
	projects.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*project.Project)
	}).Return(nil)
	var appended []*timeline.Event
	events.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
		appended = append(appended, args.Get(1).(*timeline.Event))
	}).Return(nil)
	activities.On("Log", ctx, mock.Anything).Return(nil)

	svc := exchange.NewService(projects, events, activities, "1.4.2", nil)
	imported, err := svc.ImportProject(ctx, data)
	require.NoError(t, err)

	require.NotEqual(t, "p1", imported.ID)
	require.Equal(t, "rue des tisserands", imported.Name)
	require.Equal(t, int64(1), imported.Version)
	require.Same(t, created, imported)

	require.Len(t, appended, 1)
	require.Equal(t, imported.ID, appended[0].ProjectID)
	require.NotEmpty(t, appended[0].ID)
	require.Equal(t, timeline.TypeInitialPurchase, appended[0].Type)
}

func TestService_ImportProject_TwiceYieldsDistinctProjects(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	events := &mocks.EventRepository{}

	env := exchange.Export(sampleProject(), sampleEvents(t), "1.4.2")
	data, err := json.Marshal(env)
	require.NoError(t, err)

	projects.On("Create", ctx, mock.Anything).Return(nil)
	events.On("Append", ctx, mock.Anything).Return(nil)

	svc := exchange.NewService(projects, events, nil, "1.4.2", nil)
	first, err := svc.ImportProject(ctx, data)
	require.NoError(t, err)
	second, err := svc.ImportProject(ctx, data)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestService_ImportProject_RejectsLogThatDoesNotReplay(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}

	evt, err := timeline.NewEvent(timeline.TypeNewcomerJoins,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		timeline.NewcomerJoinsPayload{Newcomer: participant.Participant{
			Name:            "Claire",
			PurchaseDetails: &participant.PurchaseDetails{Seller: "Nobody", Price: 100000},
		}})
	require.NoError(t, err)

	env := exchange.Export(sampleProject(), []timeline.Event{evt}, "1.4.2")
	data, err := json.Marshal(env)
	require.NoError(t, err)

	svc := exchange.NewService(projects, &mocks.EventRepository{}, nil, "1.4.2", nil)
	_, err = svc.ImportProject(ctx, data)
	require.ErrorIs(t, err, timeline.ErrUnknownSeller)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_ImportProject_FallbackName(t *testing.T) {
	ctx := context.Background()
	projects := &mocks.ProjectRepository{}
	events := &mocks.EventRepository{}

	proj := sampleProject()
	proj.Name = ""
	env := exchange.Export(proj, nil, "1.4.2")
	data, err := json.Marshal(env)
	require.NoError(t, err)

	projects.On("Create", ctx, mock.Anything).Return(nil)
	events.On("Append", ctx, mock.Anything).Return(nil)

	svc := exchange.NewService(projects, events, nil, "1.4.2", nil)
	imported, err := svc.ImportProject(ctx, data)
	require.NoError(t, err)
	require.Contains(t, imported.Name, "Imported ")
}
