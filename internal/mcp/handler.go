package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler dispatches calculator methods addressed by name. The JSON-RPC
// surface and the MCP tools run the same handlers, so both transports see
// identical semantics and error codes.
type Handler struct {
	services Services
}

// NewHandler creates a new method dispatcher.
func NewHandler(services Services) *Handler {
	return &Handler{services: services}
}

// Handle routes one method call to its handler.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		return dispatch(ctx, params, createProjectHandler(h.services))
	case "get_project":
		return dispatch(ctx, params, getProjectHandler(h.services))
	case "list_projects":
		return dispatch(ctx, params, listProjectsHandler(h.services))
	case "save_snapshot":
		return dispatch(ctx, params, saveSnapshotHandler(h.services))
	case "compute_costs":
		return dispatch(ctx, params, computeCostsHandler(h.services))
	case "append_event":
		return dispatch(ctx, params, appendEventHandler(h.services))
	case "list_events":
		return dispatch(ctx, params, listEventsHandler(h.services))
	case "project_timeline":
		return dispatch(ctx, params, projectTimelineHandler(h.services))
	case "participant_cashflow":
		return dispatch(ctx, params, participantCashflowHandler(h.services))
	case "copro_cashflow":
		return dispatch(ctx, params, coproCashflowHandler(h.services))
	case "portage_quote":
		return dispatch(ctx, params, portageQuoteHandler(h.services))
	case "redistribution_quote":
		return dispatch(ctx, params, redistributionQuoteHandler(h.services))
	case "export_project":
		return dispatch(ctx, params, exportProjectHandler(h.services))
	case "import_project":
		return dispatch(ctx, params, importProjectHandler(h.services))
	case "get_recent_activity":
		return dispatch(ctx, params, recentActivityHandler(h.services))
	default:
		return nil, &APIError{
			Code:         "UNKNOWN_METHOD",
			Message:      fmt.Sprintf("unknown method: %s", method),
			RecoveryHint: "Call tools/list for the supported methods",
		}
	}
}

// dispatch decodes the raw params into the handler's input type and runs
// it outside any MCP session.
func dispatch[In, Out any](ctx context.Context, params json.RawMessage, handler sdkmcp.ToolHandlerFor[In, Out]) (any, error) {
	var input In
	if err := decodeParams(params, &input); err != nil {
		return nil, &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	}
	_, out, err := handler(ctx, nil, input)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}
