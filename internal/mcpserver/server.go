// Package mcpserver exposes playthrough analysis to MCP clients over
// stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/store"
)

// Deps are the services the tools read from.
type Deps struct {
	Playthroughs PlaythroughSource
	Explorations ExplorationSource
	MinBlockSize int
	Logger       *zap.Logger
}

// PlaythroughSource is the part of playthrough.Service the tools use.
type PlaythroughSource interface {
	Get(ctx context.Context, id string) (*playthrough.Playthrough, error)
	List(ctx context.Context, opts store.QueryOpts) ([]*playthrough.Playthrough, error)
}

// ExplorationSource is the part of exploration.Service the tools use.
type ExplorationSource interface {
	ForPlaythrough(ctx context.Context, id string, version int) (*exploration.Exploration, error)
}

// New builds the server with every tool registered.
func New(version string, deps Deps) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MinBlockSize == 0 {
		deps.MinBlockSize = actionrender.MinBlockSize
	}
	s := server.NewMCPServer(
		"playlens",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	rule := NewRuleTool()
	s.AddTool(rule.Definition(), rule.Handle)

	render := NewRenderTool(deps)
	s.AddTool(render.Definition(), render.Handle)

	list := NewListTool(deps)
	s.AddTool(list.Definition(), list.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `playlens stores learner playthroughs of interactive lessons that were flagged with an issue (EarlyQuit, MultipleIncorrectSubmissions, CyclicStateTransitions).
Use list_playthroughs to find them, render_playthrough to read one, and evaluate_set_rule to check how a multi-select answer would be graded.`
