// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/hubmcp/internal/hubspot"
)

const (
	serverName    = "hubmcp"
	serverVersion = "1.0.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for local agent integrations such as Claude Desktop).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

// CRM is the subset of the HubSpot client that the tool handlers use.
type CRM interface {
	ListObjects(ctx context.Context, typ hubspot.ObjectType, p hubspot.ListParams) (json.RawMessage, error)
	GetObject(ctx context.Context, typ hubspot.ObjectType, id string, properties []string) (json.RawMessage, error)
	CreateObject(ctx context.Context, typ hubspot.ObjectType, properties map[string]any) (json.RawMessage, error)
	UpdateObject(ctx context.Context, typ hubspot.ObjectType, id string, properties map[string]any) (json.RawMessage, error)
	DeleteObject(ctx context.Context, typ hubspot.ObjectType, id string) (json.RawMessage, error)
	Search(ctx context.Context, typ hubspot.ObjectType, req hubspot.SearchRequest) (*hubspot.SearchResponse, error)
}

// errNoClient is returned by tool handlers when the server was constructed
// without a HubSpot client.
var errNoClient = errors.New("hubspot client is not configured")

// Server wraps an MCP server and the HubSpot client it operates on.
type Server struct {
	mcp    *mcpsrv.MCPServer
	client CRM
	logger *slog.Logger
}

// Option is the signature of the server option-setting function.
type Option func(*Server)

// WithClient sets the HubSpot client backing the tools.
func WithClient(cl CRM) Option {
	return func(s *Server) {
		if cl != nil {
			s.client = cl
		}
	}
}

// WithLogger sets the logger.  A nil logger falls back to slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New creates a new MCP server with the full tool set registered.  The
// server does not start listening until one of the Serve* methods is called.
func New(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions()),
	)
	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}
	s.mcp = mcpServer
	return s
}

// instructions returns the server instructions that describe the adapter to
// the connecting agent.
func instructions() string {
	return `You are connected to a HubSpot CRM MCP server.

Available tools operate on three CRM object types: contacts, companies and
deals.  You can list objects (paginated via the "after" cursor), fetch a
single object by ID, create and update objects by supplying a "properties"
mapping, delete contacts, and search objects by a property value.

Property names and values follow HubSpot's CRM API contract (e.g. contact
"email", "firstname", "lastname"; company "name", "domain"; deal "dealname",
"amount").  Results are returned as raw HubSpot JSON.`
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport used by local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as
// "127.0.0.1:8423".  The MCP endpoint is mounted at /mcp; /health responds
// with a trivial liveness body.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	r.Handle("/mcp", streamSrv)

	httpSrv := &http.Server{Addr: addr, Handler: r}

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		if err := httpSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// AddTool adds an additional tool to the MCP server.  This can be called
// after New but before serving starts.
func (s *Server) AddTool(tool mcpsrv.ServerTool) {
	s.mcp.AddTool(tool.Tool, tool.Handler)
}

// resultText is a helper that wraps text in a successful CallToolResult.
func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

// resultErr is a helper that wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// resultRaw wraps a raw JSON payload in a successful CallToolResult,
// passing it through without re-encoding.
func resultRaw(raw json.RawMessage) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(string(raw))
}

// resultJSON is a helper that serialises v to JSON and returns a CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}

// stringArg extracts a named string argument from a tool call request.
// Returns ("", false) if the argument is absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg extracts a named int argument from a tool call request.  The MCP
// protocol serialises numbers as float64, so we convert accordingly.
func intArg(req mcplib.CallToolRequest, name string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return defaultVal
}

// stringSliceArg extracts a named string array argument from a tool call
// request.  Non-string elements are skipped.  Returns nil when the argument
// is absent or not an array.
func stringSliceArg(req mcplib.CallToolRequest, name string) []string {
	args := req.GetArguments()
	if args == nil {
		return nil
	}
	arr, ok := args[name].([]any)
	if !ok {
		return nil
	}
	var ss []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			ss = append(ss, s)
		}
	}
	return ss
}

// objectArg extracts a named object argument (a JSON mapping) from a tool
// call request.  Returns nil when the argument is absent or not an object.
func objectArg(req mcplib.CallToolRequest, name string) map[string]any {
	args := req.GetArguments()
	if args == nil {
		return nil
	}
	m, ok := args[name].(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// argPresent reports whether the named argument is present and usable: a
// string argument must be non-empty, anything else only needs to be non-nil.
func argPresent(req mcplib.CallToolRequest, name string) bool {
	args := req.GetArguments()
	if args == nil {
		return false
	}
	v, ok := args[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
