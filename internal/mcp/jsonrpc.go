// Package mcp serves the insight engine as MCP tools over a JSON-RPC 2.0
// stdio stream.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/chat"
	"github.com/blackwell-systems/tablewatch/internal/insight"
)

const (
	protocolVersion = "2024-11-05"
	maxLineBytes    = 1 << 20
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server answers MCP requests on a line-delimited JSON-RPC 2.0 stream by
// dispatching tools/call to the registered engine tools.
type Server struct {
	tools         []toolDef
	byName        map[string]int
	service       *insight.Service
	responder     *chat.Responder
	defaultFilter analyzer.Filter
	version       string
	logger        *zap.Logger
}

// toolDef is one callable tool and the schema advertised for its arguments.
type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     toolHandler
}

type toolHandler func(args json.RawMessage) (any, error)

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// toolsCallResult is a tools/call result: the tool's JSON output, or its
// error message, as a single text block.
type toolsCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// method handles one JSON-RPC method. A non-nil error becomes the
// response's error member.
type method func(s *Server, params json.RawMessage) (any, *jsonrpcError)

var methods = map[string]method{
	"initialize": (*Server).initialize,
	"ping":       func(*Server, json.RawMessage) (any, *jsonrpcError) { return map[string]any{}, nil },
	"tools/list": (*Server).listTools,
	"tools/call": (*Server).callToolMethod,
}

// NewServer constructs a Server with every engine tool registered. Tools
// that take a filter fall back to defaultFilter.
func NewServer(svc *insight.Service, responder *chat.Responder, defaultFilter analyzer.Filter, version string) *Server {
	if responder == nil {
		responder = chat.NewResponder()
	}
	if defaultFilter == "" {
		defaultFilter = analyzer.FilterWeek
	}
	s := &Server{
		byName:        make(map[string]int),
		service:       svc,
		responder:     responder,
		defaultFilter: defaultFilter,
		version:       version,
		logger:        zap.NewNop(),
	}
	addTools(s)
	return s
}

// WithLogger sets the logger for tool failures. The protocol stream itself
// owns stdout, so logs must go elsewhere.
func (s *Server) WithLogger(l *zap.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// registerTool adds def, replacing any tool of the same name in place.
func (s *Server) registerTool(def toolDef) {
	if i, ok := s.byName[def.Name]; ok {
		s.tools[i] = def
		return
	}
	s.byName[def.Name] = len(s.tools)
	s.tools = append(s.tools, def)
}

// Run serves requests from r until ctx is cancelled or r reaches EOF, both
// of which return nil. Read and write failures are returned.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	lines, readErr := readLines(ctx, r)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			resp, reply := s.handle(line)
			if !reply {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
		}
	}
}

// readLines feeds r line by line into the returned channel, which is
// closed at EOF. A scan failure is sent on the error channel instead.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errs <- err
			return
		}
		close(lines)
	}()
	return lines, errs
}

// handle decodes one line and builds its response. Notifications (no id)
// get none.
func (s *Server) handle(line string) (jsonrpcResponse, bool) {
	var req jsonrpcRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return jsonrpcResponse{
			JSONRPC: "2.0",
			Error:   &jsonrpcError{Code: codeParseError, Message: "Parse error"},
		}, true
	}
	if req.ID == nil {
		return jsonrpcResponse{}, false
	}

	resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
	m, ok := methods[req.Method]
	if !ok {
		resp.Error = &jsonrpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return resp, true
	}
	resp.Result, resp.Error = m(s, req.Params)
	return resp, true
}

func (s *Server) initialize(json.RawMessage) (any, *jsonrpcError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"serverInfo":      map[string]any{"name": "tablewatch", "version": s.version},
	}, nil
}

func (s *Server) listTools(json.RawMessage) (any, *jsonrpcError) {
	entries := make([]toolListEntry, len(s.tools))
	for i, t := range s.tools {
		entries[i] = toolListEntry{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return map[string]any{"tools": entries}, nil
}

func (s *Server) callToolMethod(params json.RawMessage) (any, *jsonrpcError) {
	var p toolsCallParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}
	return s.callTool(p), nil
}

// callTool runs the named tool. Unknown tools and tool failures are tool
// errors, not protocol errors.
func (s *Server) callTool(params toolsCallParams) toolsCallResult {
	i, ok := s.byName[params.Name]
	if !ok {
		return errorResult(fmt.Sprintf("unknown tool: %s", params.Name))
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := s.tools[i].Handler(args)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return errorResult(err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errorResult(err.Error())
	}
	return toolsCallResult{Content: []mcpContent{{Type: "text", Text: string(data)}}}
}

func errorResult(msg string) toolsCallResult {
	return toolsCallResult{Content: []mcpContent{{Type: "text", Text: msg}}, IsError: true}
}
