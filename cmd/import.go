package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/playthrough"
)

var importCmd = &cobra.Command{
	Use:   "import <playthrough.json>...",
	Short: "Import playthroughs exported in backend JSON form",
	Long: "Import playthroughs exported in backend JSON form. A playthrough without an issue_type\n" +
		"is run through issue detection and skipped when it shows no issue.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := playthrough.NewService(st.PlaythroughRepo(), logger)
		ctx := cmd.Context()
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			// Dicts without an issue_type are classified with the configured thresholds.
			p, err := playthrough.ParseJSONWithThresholds(raw, cfg.Playthrough.Thresholds)
			if errors.Is(err, playthrough.ErrNoIssue) {
				fmt.Printf("skipped %s: no issue detected\n", path)
				continue
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if err := svc.Save(ctx, p); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			fmt.Printf("imported %s (%s, %d actions)\n", p.ID, p.IssueType, len(p.Actions))
		}
		return nil
	},
}
