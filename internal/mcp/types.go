package mcp

import (
	"github.com/maraval/coprojet/internal/domain/activity"
	"github.com/maraval/coprojet/internal/domain/cashflow"
	"github.com/maraval/coprojet/internal/domain/finance"
	"github.com/maraval/coprojet/internal/domain/participant"
	"github.com/maraval/coprojet/internal/domain/project"
	"github.com/maraval/coprojet/internal/domain/timeline"
)

// Dates in tool inputs are strings, YYYY-MM-DD or RFC 3339. Empty means
// unset; each tool documents its default.

type CreateProjectParams struct {
	ID           string                    `json:"id,omitempty" jsonschema:"project identifier, generated when omitted"`
	Name         string                    `json:"name" jsonschema:"project display name"`
	Description  string                    `json:"description,omitempty" jsonschema:"free-form project description"`
	DeedDate     string                    `json:"deed_date,omitempty" jsonschema:"date of the notary deed"`
	Participants []participant.Participant `json:"participants,omitempty" jsonschema:"founding participant baseline"`
	Params       finance.ProjectParams     `json:"params" jsonschema:"project-level calculation parameters"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []project.ProjectSummary `json:"projects" jsonschema:"summaries of all stored projects"`
}

type ProjectResult struct {
	Project *project.Project `json:"project" jsonschema:"the stored project"`
}

type SaveSnapshotParams struct {
	ProjectID    string                    `json:"project_id" jsonschema:"project identifier"`
	Participants []participant.Participant `json:"participants" jsonschema:"replacement participant baseline"`
	Params       finance.ProjectParams     `json:"params" jsonschema:"replacement calculation parameters"`
	DeedDate     string                    `json:"deed_date,omitempty" jsonschema:"replacement deed date, unchanged when omitted"`
	BaseVersion  int64                     `json:"base_version" jsonschema:"project version this snapshot was edited from"`
	Force        bool                      `json:"force,omitempty" jsonschema:"overwrite even if the stored version moved"`
}

type SaveSnapshotResult struct {
	Project  *project.Project      `json:"project,omitempty" jsonschema:"the saved project, absent on conflict"`
	Conflict *project.ConflictInfo `json:"conflict,omitempty" jsonschema:"set when the base version is stale"`
}

type ComputeCostsParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
}

type AppendEventParams struct {
	ProjectID string         `json:"project_id" jsonschema:"project identifier"`
	Type      string         `json:"type" jsonschema:"event type discriminant"`
	Date      string         `json:"date" jsonschema:"event date, no earlier than the log head"`
	Label     string         `json:"label,omitempty" jsonschema:"free-form event label"`
	Payload   map[string]any `json:"payload,omitempty" jsonschema:"event payload for the given type"`
}

type AppendEventResult struct {
	Event *timeline.Event `json:"event" jsonschema:"the stored event with its assigned sequence number"`
}

type ListEventsParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	AfterSeq  uint64 `json:"after_seq,omitempty" jsonschema:"return events after this sequence number"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum events per page"`
}

type ListEventsResult struct {
	Events []timeline.Event `json:"events" jsonschema:"one page of the event log in sequence order"`
}

type ProjectTimelineParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
}

type ProjectTimelineResult struct {
	Phases []cashflow.PhaseProjection `json:"phases" jsonschema:"derived state and cost snapshot after each event"`
}

type ParticipantCashflowParams struct {
	ProjectID   string `json:"project_id" jsonschema:"project identifier"`
	Participant string `json:"participant" jsonschema:"participant name"`
	EndDate     string `json:"end_date,omitempty" jsonschema:"projection horizon, defaults to the last event date"`
}

type CoproCashflowParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"projection horizon, defaults to the last event date"`
}

type PortageQuoteParams struct {
	ProjectID     string  `json:"project_id" jsonschema:"project identifier"`
	LotID         string  `json:"lot_id" jsonschema:"carried or copro-held lot to price"`
	SaleDate      string  `json:"sale_date,omitempty" jsonschema:"prospective sale date, defaults to today"`
	Renovations   float64 `json:"renovations,omitempty" jsonschema:"renovation costs added to a founder-held lot price"`
	SurfaceChosen float64 `json:"surface_chosen,omitempty" jsonschema:"surface bought out of a copro-held lot, defaults to the whole lot"`
}

type PortageQuoteResult struct {
	LotID     string                `json:"lot_id" jsonschema:"the priced lot"`
	Holder    string                `json:"holder" jsonschema:"current holder, a participant name or the copropriété"`
	YearsHeld float64               `json:"years_held" jsonschema:"holding period at the sale date"`
	Carrying  finance.CarryingCosts `json:"carrying" jsonschema:"carrying cost breakdown over the holding period"`
	Price     finance.ResalePrice   `json:"price" jsonschema:"resale price breakdown"`
}

type RedistributionQuoteParams struct {
	ProjectID    string  `json:"project_id" jsonschema:"project identifier"`
	SaleProceeds float64 `json:"sale_proceeds" jsonschema:"amount to redistribute"`
	Method       string  `json:"method,omitempty" jsonschema:"surface (default) or time"`
	SaleDate     string  `json:"sale_date,omitempty" jsonschema:"sale date for time weighting and the active-participant cut"`
}

type RedistributionQuoteResult struct {
	Entries []finance.RedistributionEntry `json:"entries" jsonschema:"per-participant quotité and amount"`
}

type ExportProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
}

type ImportProjectParams struct {
	Envelope map[string]any `json:"envelope" jsonschema:"a previously exported project envelope"`
}

type RecentActivityParams struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	EventID   string `json:"event_id,omitempty" jsonschema:"filter to entries tied to one event"`
	Type      string `json:"type,omitempty" jsonschema:"filter by activity type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries"`
	Offset    int    `json:"offset,omitempty" jsonschema:"pagination offset"`
}

type RecentActivityResult struct {
	Activity []activity.Entry `json:"activity" jsonschema:"audit trail entries, newest first"`
}
