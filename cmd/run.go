package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/app"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/insight"
	"github.com/abhisek/playlens/internal/llm"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/screens"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := screens.Deps{
		Playthroughs: playthrough.NewService(st.PlaythroughRepo(), logger),
		Explorations: exploration.NewService(st.ExplorationRepo(), logger),
		MinBlockSize: cfg.Render.MinBlockSize,
		Logger:       logger,
	}

	provider, err := llm.New(cmd.Context(), cfg.LLM, st.EventRepo(), logger)
	if err != nil {
		logger.Info("LLM provider not configured", zap.Error(err))
	} else {
		deps.Explainer = insight.NewService(provider,
			insight.WithLogger(logger),
			insight.WithMinBlockSize(cfg.Render.MinBlockSize),
		)
	}

	if err := app.Run(app.Options{Deps: deps, Version: version}); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
