package mcp

import (
	"context"
	"log/slog"

	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by the tool surface.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	SaveSnapshot(ctx context.Context, req project.SaveSnapshotRequest) (*project.Project, *project.ConflictInfo, error)
	Compute(ctx context.Context, projectID string) (finance.CalculationResults, error)
}

// TimelineService defines event log operations needed by the tool surface.
type TimelineService interface {
	Append(ctx context.Context, req timeline.AppendRequest) (*timeline.Event, error)
	List(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]timeline.Event, error)
	All(ctx context.Context, projectID string) ([]timeline.Event, error)
	CurrentState(ctx context.Context, projectID string) (timeline.ProjectionState, error)
}

// ActivityService defines audit trail operations needed by the tool surface.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// ExchangeService defines envelope import/export operations needed by the
// tool surface.
type ExchangeService interface {
	ExportProject(ctx context.Context, projectID string) (exchange.Envelope, error)
	ImportProject(ctx context.Context, data []byte) (*project.Project, error)
}

// Services contains all domain services the tool surface dispatches to.
type Services struct {
	Projects ProjectService
	Timeline TimelineService
	Activity ActivityService
	Exchange ExchangeService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools, doc
// resources and traffic logging.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "coprojet",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
