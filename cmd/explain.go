package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/insight"
	"github.com/abhisek/playlens/internal/llm"
)

var explainCmd = &cobra.Command{
	Use:   "explain [playthrough-id]",
	Short: "Ask an LLM why a learner struggled and how to fix the lesson",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		promptOnly, _ := cmd.Flags().GetBool("prompt")
		if (file == "") == (len(args) == 0) {
			return errors.New("pass either a playthrough ID or --file")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		p, err := loadPlaythrough(ctx, st, file, args)
		if err != nil {
			return err
		}
		exp, err := exploration.NewService(st.ExplorationRepo(), logger).ForPlaythrough(ctx, p.ExpID, p.ExpVersion)
		if err != nil {
			return err
		}

		if promptOnly {
			fmt.Println(insight.BuildPrompt(p, exp, cfg.Render.MinBlockSize))
			return nil
		}

		provider, err := llm.New(ctx, cfg.LLM, st.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		svc := insight.NewService(provider,
			insight.WithLogger(logger),
			insight.WithMinBlockSize(cfg.Render.MinBlockSize),
		)
		sg, err := svc.Suggest(ctx, p, exp)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n\n", p.IssueType, p.Describe())
		fmt.Println(sg.Summary)
		fmt.Println()
		fmt.Println("Likely cause:", sg.LikelyCause)
		fmt.Println()
		fmt.Println("Suggested fixes:")
		for _, f := range sg.Fixes {
			fmt.Println("  -", f)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().StringP("file", "f", "", "Read the playthrough from a backend JSON file")
	explainCmd.Flags().Bool("prompt", false, "Print the prompt without calling the model")
}
