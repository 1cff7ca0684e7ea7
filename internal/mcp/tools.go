package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/cashflow"
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
	"github.com/maraval/coprojet/internal/exchange"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultActivityLimit = 50

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a co-ownership project with its participant baseline and calculation parameters",
	}, createProjectHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a stored project by id",
	}, getProjectHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all stored projects with participant and event counts",
	}, listProjectsHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_snapshot",
		Description: "Replace a project's participant baseline and parameters, guarded by the version it was edited from",
	}, saveSnapshotHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compute_costs",
		Description: "Run the full cost calculation on a project's stored baseline",
	}, computeCostsHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "append_event",
		Description: "Append a dated event to a project's history; the payload is validated against the replayed state before anything is stored",
	}, appendEventHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_events",
		Description: "List one page of a project's event log in sequence order",
	}, listEventsHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_timeline",
		Description: "Replay the event log and return the derived state, cost snapshot and cash-flow summaries after each event",
	}, projectTimelineHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "participant_cashflow",
		Description: "Project one participant's dated transaction ledger with running balances",
	}, participantCashflowHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "copro_cashflow",
		Description: "Project the copropriété's transaction ledger: sale proceeds in, obligations and loan payments out",
	}, coproCashflowHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "portage_quote",
		Description: "Price the resale of a carried or copro-held lot at a prospective sale date",
	}, portageQuoteHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "redistribution_quote",
		Description: "Split sale proceeds across participants by surface quotité or time in the project",
	}, redistributionQuoteHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Export a project and its full event log as a versioned envelope",
	}, exportProjectHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_project",
		Description: "Validate an exported envelope and store it as a new project",
	}, importProjectHandler(svcs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List the audit trail of project mutations, newest first",
	}, recentActivityHandler(svcs))
}

func createProjectHandler(svcs Services) sdkmcp.ToolHandlerFor[CreateProjectParams, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
		deedDate, err := parseDate(input.DeedDate)
		if err != nil {
			return nil, ProjectResult{}, err
		}
		proj, err := svcs.Projects.Create(ctx, project.CreateRequest{
			ID:           input.ID,
			Name:         input.Name,
			Description:  input.Description,
			DeedDate:     deedDate,
			Participants: input.Participants,
			Params:       input.Params,
		})
		if err != nil {
			return nil, ProjectResult{}, mapError(err)
		}
		return nil, ProjectResult{Project: proj}, nil
	}
}

func getProjectHandler(svcs Services) sdkmcp.ToolHandlerFor[GetProjectParams, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
		proj, err := svcs.Projects.Get(ctx, input.ID)
		if err != nil {
			return nil, ProjectResult{}, mapError(err)
		}
		return nil, ProjectResult{Project: proj}, nil
	}
}

func listProjectsHandler(svcs Services) sdkmcp.ToolHandlerFor[ListProjectsParams, ListProjectsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
		projects, err := svcs.Projects.List(ctx)
		if err != nil {
			return nil, ListProjectsResult{}, mapError(err)
		}
		if projects == nil {
			projects = []project.ProjectSummary{}
		}
		return nil, ListProjectsResult{Projects: projects}, nil
	}
}

func saveSnapshotHandler(svcs Services) sdkmcp.ToolHandlerFor[SaveSnapshotParams, SaveSnapshotResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input SaveSnapshotParams) (*sdkmcp.CallToolResult, SaveSnapshotResult, error) {
		deedDate, err := parseDate(input.DeedDate)
		if err != nil {
			return nil, SaveSnapshotResult{}, err
		}
		proj, conflict, err := svcs.Projects.SaveSnapshot(ctx, project.SaveSnapshotRequest{
			ProjectID:    input.ProjectID,
			Participants: input.Participants,
			Params:       input.Params,
			DeedDate:     deedDate,
			BaseVersion:  input.BaseVersion,
			Force:        input.Force,
		})
		if err != nil {
			return nil, SaveSnapshotResult{}, mapError(err)
		}
		return nil, SaveSnapshotResult{Project: proj, Conflict: conflict}, nil
	}
}

func computeCostsHandler(svcs Services) sdkmcp.ToolHandlerFor[ComputeCostsParams, finance.CalculationResults] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ComputeCostsParams) (*sdkmcp.CallToolResult, finance.CalculationResults, error) {
		results, err := svcs.Projects.Compute(ctx, input.ProjectID)
		if err != nil {
			return nil, finance.CalculationResults{}, mapError(err)
		}
		return nil, results, nil
	}
}

func appendEventHandler(svcs Services) sdkmcp.ToolHandlerFor[AppendEventParams, AppendEventResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input AppendEventParams) (*sdkmcp.CallToolResult, AppendEventResult, error) {
		date, err := parseDate(input.Date)
		if err != nil {
			return nil, AppendEventResult{}, err
		}
		payload, err := json.Marshal(input.Payload)
		if err != nil {
			return nil, AppendEventResult{}, fmt.Errorf("encoding payload: %w", err)
		}
		evt, err := svcs.Timeline.Append(ctx, timeline.AppendRequest{
			ProjectID: input.ProjectID,
			Type:      timeline.Type(input.Type),
			Date:      date,
			Label:     input.Label,
			Payload:   payload,
		})
		if err != nil {
			return nil, AppendEventResult{}, mapError(err)
		}
		return nil, AppendEventResult{Event: evt}, nil
	}
}

func listEventsHandler(svcs Services) sdkmcp.ToolHandlerFor[ListEventsParams, ListEventsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ListEventsParams) (*sdkmcp.CallToolResult, ListEventsResult, error) {
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, ListEventsResult{}, mapError(err)
		}
		events, err := svcs.Timeline.List(ctx, input.ProjectID, input.AfterSeq, input.Limit)
		if err != nil {
			return nil, ListEventsResult{}, mapError(err)
		}
		if events == nil {
			events = []timeline.Event{}
		}
		return nil, ListEventsResult{Events: events}, nil
	}
}

func projectTimelineHandler(svcs Services) sdkmcp.ToolHandlerFor[ProjectTimelineParams, ProjectTimelineResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectTimelineParams) (*sdkmcp.CallToolResult, ProjectTimelineResult, error) {
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, ProjectTimelineResult{}, mapError(err)
		}
		events, err := svcs.Timeline.All(ctx, input.ProjectID)
		if err != nil {
			return nil, ProjectTimelineResult{}, mapError(err)
		}
		phases, err := cashflow.BuildPhases(events)
		if err != nil {
			return nil, ProjectTimelineResult{}, mapError(err)
		}
		if phases == nil {
			phases = []cashflow.PhaseProjection{}
		}
		return nil, ProjectTimelineResult{Phases: phases}, nil
	}
}

func participantCashflowHandler(svcs Services) sdkmcp.ToolHandlerFor[ParticipantCashflowParams, cashflow.ParticipantCashFlow] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ParticipantCashflowParams) (*sdkmcp.CallToolResult, cashflow.ParticipantCashFlow, error) {
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			return nil, cashflow.ParticipantCashFlow{}, err
		}
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, cashflow.ParticipantCashFlow{}, mapError(err)
		}
		events, err := svcs.Timeline.All(ctx, input.ProjectID)
		if err != nil {
			return nil, cashflow.ParticipantCashFlow{}, mapError(err)
		}
		state, err := timeline.Reduce(events)
		if err != nil {
			return nil, cashflow.ParticipantCashFlow{}, mapError(err)
		}
		if state.ParticipantByName(input.Participant) < 0 {
			return nil, cashflow.ParticipantCashFlow{},
				mapError(fmt.Errorf("%q: %w", input.Participant, timeline.ErrUnknownParticipant))
		}
		flow, err := cashflow.BuildParticipantCashFlow(events, input.Participant, endDate)
		if err != nil {
			return nil, cashflow.ParticipantCashFlow{}, mapError(err)
		}
		return nil, flow, nil
	}
}

func coproCashflowHandler(svcs Services) sdkmcp.ToolHandlerFor[CoproCashflowParams, cashflow.CoproCashFlow] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CoproCashflowParams) (*sdkmcp.CallToolResult, cashflow.CoproCashFlow, error) {
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			return nil, cashflow.CoproCashFlow{}, err
		}
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, cashflow.CoproCashFlow{}, mapError(err)
		}
		events, err := svcs.Timeline.All(ctx, input.ProjectID)
		if err != nil {
			return nil, cashflow.CoproCashFlow{}, mapError(err)
		}
		flow, err := cashflow.BuildCoproCashFlow(events, endDate)
		if err != nil {
			return nil, cashflow.CoproCashFlow{}, mapError(err)
		}
		return nil, flow, nil
	}
}

func portageQuoteHandler(svcs Services) sdkmcp.ToolHandlerFor[PortageQuoteParams, PortageQuoteResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input PortageQuoteParams) (*sdkmcp.CallToolResult, PortageQuoteResult, error) {
		saleDate, err := parseDate(input.SaleDate)
		if err != nil {
			return nil, PortageQuoteResult{}, err
		}
		if saleDate.IsZero() {
			saleDate = time.Now()
		}
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, PortageQuoteResult{}, mapError(err)
		}
		state, err := svcs.Timeline.CurrentState(ctx, input.ProjectID)
		if err != nil {
			return nil, PortageQuoteResult{}, mapError(err)
		}

		for _, p := range state.Participants {
			for _, lot := range p.Lots {
				if lot.ID != input.LotID || lot.Sold() {
					continue
				}
				years := finance.YearsHeld(lot.AcquiredDate, saleDate)
				months := monthsBetween(lot.AcquiredDate, saleDate)
				var carrying finance.CarryingCosts
				if lot.MonthlyCarryingCost > 0 {
					carrying = finance.CarryingCosts{
						TotalMonthly:   lot.MonthlyCarryingCost,
						Months:         months,
						TotalForPeriod: lot.MonthlyCarryingCost * float64(months),
					}
				} else {
					acquisition := lot.OriginalPrice + lot.OriginalNotaryFees + lot.OriginalConstructionCost
					carrying = finance.ComputeCarryingCosts(acquisition, 0, months, state.Params.Portage.InterestRatePct)
				}
				price := finance.PortagePrice(lot.OriginalPrice, lot.OriginalNotaryFees,
					lot.OriginalConstructionCost, years, state.Params.Portage, carrying, input.Renovations)
				return nil, PortageQuoteResult{
					LotID:     lot.ID,
					Holder:    p.Name,
					YearsHeld: years,
					Carrying:  carrying,
					Price:     price,
				}, nil
			}
		}

		if lot, ok := state.Copro.LotByID(input.LotID); ok {
			years := finance.YearsHeld(lot.AcquiredDate, saleDate)
			months := monthsBetween(lot.AcquiredDate, saleDate)
			surface := input.SurfaceChosen
			if surface <= 0 {
				surface = lot.Surface
			}
			acquisition := lot.OriginalPrice + lot.OriginalNotaryFees + lot.OriginalConstructionCost
			carrying := finance.ComputeCarryingCosts(acquisition, 0, months, state.Params.Portage.InterestRatePct)
			price := finance.PortagePriceFromCopro(surface, lot.Surface, acquisition,
				years, state.Params.Portage, carrying)
			return nil, PortageQuoteResult{
				LotID:     lot.ID,
				Holder:    timeline.Copro,
				YearsHeld: years,
				Carrying:  carrying,
				Price:     price,
			}, nil
		}

		return nil, PortageQuoteResult{},
			mapError(fmt.Errorf("lot %q: %w", input.LotID, timeline.ErrUnknownLot))
	}
}

func redistributionQuoteHandler(svcs Services) sdkmcp.ToolHandlerFor[RedistributionQuoteParams, RedistributionQuoteResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RedistributionQuoteParams) (*sdkmcp.CallToolResult, RedistributionQuoteResult, error) {
		saleDate, err := parseDate(input.SaleDate)
		if err != nil {
			return nil, RedistributionQuoteResult{}, err
		}
		if _, err := svcs.Projects.Get(ctx, input.ProjectID); err != nil {
			return nil, RedistributionQuoteResult{}, mapError(err)
		}
		state, err := svcs.Timeline.CurrentState(ctx, input.ProjectID)
		if err != nil {
			return nil, RedistributionQuoteResult{}, mapError(err)
		}
		if saleDate.IsZero() {
			saleDate = state.CurrentDate
		}

		var entries []finance.RedistributionEntry
		switch input.Method {
		case "", "surface":
			var shares []finance.SurfaceShare
			var total float64
			for _, p := range state.Participants {
				if !p.ActiveAt(saleDate) {
					continue
				}
				surface := p.EffectiveSurface()
				shares = append(shares, finance.SurfaceShare{Name: p.Name, Surface: surface})
				total += surface
			}
			entries = finance.Redistribution(input.SaleProceeds, shares, total)
		case "time":
			var shares []finance.TimeShare
			for _, p := range state.Participants {
				if !p.ActiveAt(saleDate) {
					continue
				}
				shares = append(shares, finance.TimeShare{Name: p.Name, EntryDate: p.EntryDate})
			}
			entries = finance.RedistributionByTime(input.SaleProceeds, shares, saleDate)
		default:
			return nil, RedistributionQuoteResult{}, &APIError{
				Code:         "INVALID_METHOD",
				Message:      fmt.Sprintf("unknown redistribution method %q", input.Method),
				RecoveryHint: "Use surface or time",
			}
		}
		if entries == nil {
			entries = []finance.RedistributionEntry{}
		}
		return nil, RedistributionQuoteResult{Entries: entries}, nil
	}
}

func exportProjectHandler(svcs Services) sdkmcp.ToolHandlerFor[ExportProjectParams, exchange.Envelope] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ExportProjectParams) (*sdkmcp.CallToolResult, exchange.Envelope, error) {
		env, err := svcs.Exchange.ExportProject(ctx, input.ProjectID)
		if err != nil {
			return nil, exchange.Envelope{}, mapError(err)
		}
		return nil, env, nil
	}
}

func importProjectHandler(svcs Services) sdkmcp.ToolHandlerFor[ImportProjectParams, ProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ImportProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
		if input.Envelope == nil {
			return nil, ProjectResult{}, &APIError{
				Code:         "INVALID_INPUT",
				Message:      "envelope required",
				RecoveryHint: "Pass the JSON object produced by export_project",
			}
		}
		data, err := json.Marshal(input.Envelope)
		if err != nil {
			return nil, ProjectResult{}, fmt.Errorf("encoding envelope: %w", err)
		}
		proj, err := svcs.Exchange.ImportProject(ctx, data)
		if err != nil {
			return nil, ProjectResult{}, mapError(err)
		}
		return nil, ProjectResult{Project: proj}, nil
	}
}

func recentActivityHandler(svcs Services) sdkmcp.ToolHandlerFor[RecentActivityParams, RecentActivityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
		opts := activity.ListOptions{
			ProjectID: input.ProjectID,
			Limit:     input.Limit,
			Offset:    input.Offset,
		}
		if opts.Limit <= 0 {
			opts.Limit = defaultActivityLimit
		}
		if input.EventID != "" {
			opts.EventID = &input.EventID
		}
		if input.Type != "" {
			activityType := activity.Type(input.Type)
			opts.Type = &activityType
		}
		entries, err := svcs.Activity.Recent(ctx, opts)
		if err != nil {
			return nil, RecentActivityResult{}, mapError(err)
		}
		if entries == nil {
			entries = []activity.Entry{}
		}
		return nil, RecentActivityResult{Activity: entries}, nil
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input is a zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, &APIError{
		Code:         "INVALID_DATE",
		Message:      fmt.Sprintf("cannot parse date %q", value),
		RecoveryHint: "Use YYYY-MM-DD or RFC 3339",
	}
}

// monthsBetween counts whole calendar months from start to end.
func monthsBetween(start, end time.Time) int {
	months := 0
	for at := start.AddDate(0, 1, 0); !at.After(end); at = at.AddDate(0, 1, 0) {
		months++
	}
	return months
}
