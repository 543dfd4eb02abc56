package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// newEmptyServer creates a Server over an empty snapshot.
func newEmptyServer() *Server {
	svc := insight.NewService(insight.StaticSource(&pos.Snapshot{}), nil, insight.DefaultOptions())
	return NewServer(svc, nil, analyzer.FilterWeek, "test")
}

// transcript feeds lines to s until EOF and returns every response line.
func transcript(t *testing.T, s *Server, lines ...string) []string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), in, &out))

	trimmed := strings.TrimRight(out.String(), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// exchange sends one request and decodes its single response into v.
func exchange(t *testing.T, s *Server, line string, v any) string {
	t.Helper()
	resp := transcript(t, s, line)
	require.Len(t, resp, 1)
	require.NoError(t, json.Unmarshal([]byte(resp[0]), v), resp[0])
	return resp[0]
}

func TestRun_Initialize(t *testing.T) {
	var parsed struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`, &parsed)

	assert.Equal(t, protocolVersion, parsed.Result.ProtocolVersion)
	assert.Equal(t, "tablewatch", parsed.Result.ServerInfo.Name)
	assert.Equal(t, "test", parsed.Result.ServerInfo.Version)
}

func TestRun_ToolsList(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler: func(json.RawMessage) (any, error) {
			return map[string]string{"ok": "true"}, nil
		},
	})

	var parsed struct {
		Result struct {
			Tools []toolListEntry `json:"tools"`
		} `json:"result"`
	}
	exchange(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`, &parsed)

	var names []string
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}
	assert.Equal(t, []string{
		"get_insights", "get_stats", "get_inventory_predictions",
		"get_menu_recommendations", "get_forecast", "ask", "test_tool",
	}, names)
}

func TestRegisterTool_ReplacesByName(t *testing.T) {
	s := newEmptyServer()
	n := len(s.tools)
	s.registerTool(toolDef{
		Name: "ask",
		Handler: func(json.RawMessage) (any, error) {
			return "replaced", nil
		},
	})

	assert.Len(t, s.tools, n)
	res := s.callTool(toolsCallParams{Name: "ask"})
	assert.Equal(t, `"replaced"`, res.Content[0].Text)
}

func TestRun_ToolsCall(t *testing.T) {
	var parsed struct {
		ID     int             `json:"id"`
		Result toolsCallResult `json:"result"`
	}
	resp := exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get_stats"}}`, &parsed)

	assert.Equal(t, 7, parsed.ID)
	require.False(t, parsed.Result.IsError, resp)
	require.Len(t, parsed.Result.Content, 1)
	assert.Equal(t, "text", parsed.Result.Content[0].Type)
	assert.Contains(t, parsed.Result.Content[0].Text, `"top_selling_item":"No data"`)
}

func TestRun_ToolsCallUnknownTool(t *testing.T) {
	var parsed struct {
		Result toolsCallResult `json:"result"`
		Error  *jsonrpcError   `json:"error"`
	}
	exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"nope"}}`, &parsed)

	require.Nil(t, parsed.Error)
	assert.True(t, parsed.Result.IsError)
	assert.Equal(t, "unknown tool: nope", parsed.Result.Content[0].Text)
}

func TestRun_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code int
	}{
		{"parse error", `{not json`, codeParseError},
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`, codeMethodNotFound},
		{"bad call params", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":[1]}`, codeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed struct {
				Error *jsonrpcError `json:"error"`
			}
			resp := exchange(t, newEmptyServer(), tt.line, &parsed)
			require.NotNil(t, parsed.Error, resp)
			assert.Equal(t, tt.code, parsed.Error.Code)
		})
	}
}

func TestRun_Ping(t *testing.T) {
	resp := transcript(t, newEmptyServer(), `{"jsonrpc":"2.0","id":"p1","method":"ping"}`)
	assert.Equal(t, []string{`{"jsonrpc":"2.0","id":"p1","result":{}}`}, resp)
}

func TestRun_NotificationsGetNoResponse(t *testing.T) {
	resp := transcript(t, newEmptyServer(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":9,"method":"ping"}`,
	)
	assert.Equal(t, []string{`{"jsonrpc":"2.0","id":9,"result":{}}`}, resp)
}

func TestRun_EOFClean(t *testing.T) {
	var out bytes.Buffer
	err := newEmptyServer().Run(context.Background(), strings.NewReader(""), &out)
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	done := make(chan error, 1)
	go func() {
		done <- newEmptyServer().Run(ctx, pr, io.Discard)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}
