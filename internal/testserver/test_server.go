package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	"github.com/maraval/coprojet/internal/mcp"
	"github.com/maraval/coprojet/internal/sqlite"
	"github.com/maraval/coprojet/internal/transport"
)

// Release stamped into export envelopes produced by the test server.
const Release = "0.3.0-test"

// TestServer hosts the full service stack over an in-memory SQLite store
// for tests that drive the JSON-RPC surface end to end.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services mcp.Services
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	services := mcp.Services{
		Projects: project.NewService(projectRepo, activityRepo, nil),
		Timeline: timeline.NewService(eventRepo, activityRepo, nil),
		Activity: activity.NewService(activityRepo, nil),
		Exchange: exchange.NewService(projectRepo, eventRepo, activityRepo, Release, nil),
	}

	server := httptest.NewServer(transport.NewServer(mcp.NewHandler(services), nil))

	ts := &TestServer{Server: server, DB: db, Services: services}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}
