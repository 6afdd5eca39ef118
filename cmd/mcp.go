package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/mcpserver"
	"github.com/abhisek/playlens/internal/playthrough"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve playthrough tools to MCP clients over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s := mcpserver.New(version, mcpserver.Deps{
			Playthroughs: playthrough.NewService(st.PlaythroughRepo(), logger),
			Explorations: exploration.NewService(st.ExplorationRepo(), logger),
			MinBlockSize: cfg.Render.MinBlockSize,
			Logger:       logger,
		})
		logger.Info("serving MCP on stdio")
		return mcpserver.Serve(s)
	},
}
