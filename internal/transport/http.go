package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maraval/coprojet/internal/mcp"
)

// MCPHandler dispatches one named method with raw JSON params.
type MCPHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
}

// NewServer creates the HTTP router: JSON-RPC dispatch on /rpc, the
// streamable MCP session endpoint on /mcp, and a liveness probe on /health.
// A nil mcpHandler leaves /mcp unmounted.
func NewServer(handler MCPHandler, mcpHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{handler: handler}

	r.Post("/rpc", srv.handleRPC)
	if mcpHandler != nil {
		r.Mount("/mcp", mcpHandler)
	}
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrInvalidReq
		if errors.Is(err, ErrMalformedJSON) {
			code = ErrParseCode
		}
		WriteError(w, nil, code, err.Error(), nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		WriteError(w, req.ID, rpcCode(err), err.Error(), errorData(err))
		return
	}

	WriteResult(w, req.ID, result)
}

// rpcCode maps dispatch errors onto JSON-RPC error codes. Domain errors
// stay internal; only the protocol-shaped failures get their own codes.
func rpcCode(err error) int {
	var apiErr *mcp.APIError
	if !errors.As(err, &apiErr) {
		return ErrInternal
	}
	switch apiErr.Code {
	case "UNKNOWN_METHOD":
		return ErrMethodNotFound
	case "INVALID_PARAMS":
		return ErrInvalidParams
	default:
		return ErrInternal
	}
}

// errorData exposes the structured API error, recovery hint included, as
// the JSON-RPC error data.
func errorData(err error) any {
	var apiErr *mcp.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
