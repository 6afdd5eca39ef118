// Package screens holds the dependencies shared by the TUI screens.
package screens

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/insight"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/store"
)

// Deps are the services screens read from. Explainer may be nil when no
// LLM provider is configured.
type Deps struct {
	Playthroughs PlaythroughSource
	Explorations ExplorationSource
	Explainer    Explainer
	MinBlockSize int
	Logger       *zap.Logger
}

// PlaythroughSource is the part of playthrough.Service the screens use.
type PlaythroughSource interface {
	Get(ctx context.Context, id string) (*playthrough.Playthrough, error)
	List(ctx context.Context, opts store.QueryOpts) ([]*playthrough.Playthrough, error)
	CountByIssue(ctx context.Context, expID string) (map[playthrough.IssueType]int, error)
}

// ExplorationSource is the part of exploration.Service the screens use.
type ExplorationSource interface {
	ForPlaythrough(ctx context.Context, id string, version int) (*exploration.Exploration, error)
}

// Explainer asks an LLM for authoring suggestions.
type Explainer interface {
	Suggest(ctx context.Context, p *playthrough.Playthrough, exp *exploration.Exploration) (*insight.Suggestion, error)
}

// Log returns the logger, or a no-op logger when none is set.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
