package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/coprojet"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/coprojet"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Build it with 'go build -o bin/coprojet ./cmd/server' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"COPROJET_MODE=stdio",
		"COPROJET_DB_PATH=:memory:",
	)
	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Env, extraEnv...)
	}

	transport := &sdkmcp.CommandTransport{Command: cmd}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "Tool %s returned error", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)

	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text)
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil
}

func (s *stdioSession) createProject(t *testing.T) string {
	t.Helper()

	create := s.callTool(t, "create_project", map[string]any{
		"name":         "Les Tilleuls",
		"deed_date":    "2024-06-01",
		"participants": participantsSpec(),
		"params":       paramsSpec(),
	})
	var created struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(create, &created))
	require.NotEmpty(t, created.Project.ID)
	return created.Project.ID
}

func TestStdioFunctional_ProjectWorkflow(t *testing.T) {
	s := newStdioSession(t)

	projectID := s.createProject(t)

	list := s.callTool(t, "list_projects", nil)
	var listed struct {
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(list, &listed))
	require.Len(t, listed.Projects, 1)
	require.Equal(t, projectID, listed.Projects[0].ID)

	get := s.callTool(t, "get_project", map[string]any{"id": projectID})
	var fetched struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(get, &fetched))
	require.Equal(t, "Les Tilleuls", fetched.Project.Name)

	compute := s.callTool(t, "compute_costs", map[string]any{"project_id": projectID})
	var costs struct {
		PricePerM2 float64 `json:"price_per_m2"`
	}
	require.NoError(t, json.Unmarshal(compute, &costs))
	require.InDelta(t, 650000/408.0, costs.PricePerM2, 0.01)
}

func TestStdioFunctional_EventWorkflow(t *testing.T) {
	s := newStdioSession(t)

	projectID := s.createProject(t)

	appended := s.callTool(t, "append_event", map[string]any{
		"project_id": projectID,
		"type":       "project.initial_purchase",
		"date":       "2024-06-01",
		"payload": map[string]any{
			"participants": participantsSpec(),
			"params":       paramsSpec(),
		},
	})
	var first struct {
		Event struct {
			Seq uint64 `json:"seq"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(appended, &first))
	require.Equal(t, uint64(1), first.Event.Seq)

	_ = s.callTool(t, "append_event", map[string]any{
		"project_id": projectID,
		"type":       "copro.loan_taken",
		"date":       "2024-09-01",
		"payload":    map[string]any{"amount": 50000, "annual_rate_pct": 3.5, "years": 15},
	})

	events := s.callTool(t, "list_events", map[string]any{"project_id": projectID})
	var log struct {
		Events []struct {
			Type string `json:"type"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(events, &log))
	require.Len(t, log.Events, 2)
	require.Equal(t, "project.initial_purchase", log.Events[0].Type)

	quote := s.callTool(t, "portage_quote", map[string]any{
		"project_id": projectID,
		"lot_id":     "lot-p",
		"sale_date":  "2026-09-01",
	})
	var priced struct {
		Holder string `json:"holder"`
		Price  struct {
			Total float64 `json:"total"`
		} `json:"price"`
	}
	require.NoError(t, json.Unmarshal(quote, &priced))
	require.Equal(t, "Bernard", priced.Holder)
	require.Greater(t, priced.Price.Total, 0.0)
}

func TestStdioFunctional_MCPProtocolCompliance(t *testing.T) {
	s := newStdioSession(t)

	// Verify server info from initialization
	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "coprojet", initResult.ServerInfo.Name)
	require.Equal(t, "0.3.0", initResult.ServerInfo.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Greater(t, len(tools.Tools), 14, "should have at least 15 tools")

	toolMap := make(map[string]*sdkmcp.Tool)
	for _, tool := range tools.Tools {
		toolMap[tool.Name] = tool
		require.NotEmpty(t, tool.Description, "tool %s should have a description", tool.Name)
		require.NotNil(t, tool.InputSchema, "tool %s should have an input schema", tool.Name)
	}

	require.Contains(t, toolMap, "create_project")
	require.Contains(t, toolMap, "append_event")
	require.Contains(t, toolMap, "portage_quote")
	require.Contains(t, toolMap, "import_project")
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "coprojet.log")
	s := newStdioSessionWithEnv(t, []string{
		"COPROJET_LOG_PATH=" + logPath,
		"COPROJET_LOG_LEVEL=debug",
	})

	_ = s.callTool(t, "list_projects", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp traffic"`) &&
			strings.Contains(text, "stage=request") &&
			strings.Contains(text, "stage=response")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_DocumentationResources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resources.Resources)

	uris := make(map[string]*sdkmcp.Resource, len(resources.Resources))
	for _, r := range resources.Resources {
		uris[r.URI] = r
	}

	expected := []string{
		"coprojet://docs/index",
		"coprojet://docs/concepts",
		"coprojet://docs/event-types",
		"coprojet://docs/workflows/getting-started",
		"coprojet://docs/portage",
	}
	for _, uri := range expected {
		r, ok := uris[uri]
		require.True(t, ok, "missing expected doc resource: %s", uri)
		require.NotEmpty(t, r.Name)
		require.Equal(t, "text/markdown", r.MIMEType)
		require.Greater(t, r.Size, int64(0))
	}

	read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "coprojet://docs/index"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Equal(t, "coprojet://docs/index", read.Contents[0].URI)
	require.Equal(t, "text/markdown", read.Contents[0].MIMEType)
	require.Contains(t, read.Contents[0].Text, "Agent Docs Index")
}
