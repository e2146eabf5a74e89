// Package mcp exposes the navigation runtime as MCP tools, so an agent can
// open links, drive lifecycle transitions and navigate.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Navigator is the part of the runtime the tools drive.
type Navigator interface {
	Apply(ctx context.Context, action domain.Action) (*domain.Stack, error)
	Stack() *domain.Stack
}

// Lifecycle reads and moves the messenger lifecycle state.
type Lifecycle interface {
	AppState() domain.AppState
	SetAppState(state domain.AppState)
}

// LinkOpener delivers a "URL opened" event to the live listeners.
type LinkOpener func(ctx context.Context, url string) error

// Server wraps the navigator and exposes it as an MCP server.
type Server struct {
	nav       Navigator
	lifecycle Lifecycle
	open      LinkOpener
	table     *routes.Table
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server named after version.
func NewServer(version string, nav Navigator, lifecycle Lifecycle, open LinkOpener, table *routes.Table, opts ...Option) *Server {
	s := &Server{
		nav:       nav,
		lifecycle: lifecycle,
		open:      open,
		table:     table,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("navstack-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("open_url",
		mcp.WithDescription("Deliver a URL as if the OS had opened it in the app."),
		mcp.WithString("url", mcp.Required(), mcp.Description("The URL to open")),
	), s.HandleOpenURL)

	s.mcpServer.AddTool(mcp.NewTool("set_app_state",
		mcp.WithDescription("Move the messenger to a lifecycle state. GetStarted, PreReady and Ready reset the stack."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Lifecycle state"), mcp.Enum(appStates()...)),
	), s.HandleSetAppState)

	s.mcpServer.AddTool(mcp.NewTool("get_stack",
		mcp.WithDescription("Return the current navigation stack."),
	), s.HandleGetStack)

	s.mcpServer.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List every registered route with its header chrome."),
	), s.HandleListRoutes)

	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Navigate to a route, or go back when route is omitted."),
		mcp.WithString("route", mcp.Description("Target route name, e.g. Settings.Home")),
		mcp.WithString("params", mcp.Description("JSON object of route params (optional)")),
	), s.HandleNavigate)
}

func appStates() []string {
	out := make([]string, len(domain.AppStates))
	for i, st := range domain.AppStates {
		out[i] = string(st)
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// HandleOpenURL implements the open_url tool.
func (s *Server) HandleOpenURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.open(ctx, url); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open failed: %v", err)), nil
	}
	return mcp.NewToolResultText("delivered"), nil
}

// HandleSetAppState implements the set_app_state tool.
func (s *Server) HandleSetAppState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := domain.AppState(raw)
	if !state.Known() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown app state %q", raw)), nil
	}
	s.lifecycle.SetAppState(state)
	return jsonResult(map[string]domain.AppState{"state": state})
}

// HandleGetStack implements the get_stack tool.
func (s *Server) HandleGetStack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stack := s.nav.Stack()
	if stack == nil {
		return mcp.NewToolResultError("navigator not started"), nil
	}
	return jsonResult(stack)
}

// HandleListRoutes implements the list_routes tool.
func (s *Server) HandleListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.table.Entries())
}

// HandleNavigate implements the navigate tool.
func (s *Server) HandleNavigate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route := request.GetString("route", "")

	action := domain.Back()
	if route != "" {
		var params map[string]any
		if raw := request.GetString("params", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &params); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("params must be a JSON object: %v", err)), nil
			}
		}
		action = domain.Navigate(domain.RouteName(route), params)
	}

	stack, err := s.nav.Apply(ctx, action.WithSource(domain.SourceHost))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("navigate failed: %v", err)), nil
	}
	return jsonResult(stack)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("navstack://routes", "Route table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.table.Entries())
		if err != nil {
			return nil, fmt.Errorf("failed to encode routes: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: "navstack://routes", MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("navstack://stack", "Current navigation stack",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.nav.Stack())
		if err != nil {
			return nil, fmt.Errorf("failed to encode stack: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: "navstack://stack", MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
