package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/store"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Summarize stored playthroughs by issue type",
	RunE: func(cmd *cobra.Command, args []string) error {
		expID, _ := cmd.Flags().GetString("exp")
		issueType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := playthrough.NewService(st.PlaythroughRepo(), logger)
		ctx := cmd.Context()

		counts, err := svc.CountByIssue(ctx, expID)
		if err != nil {
			return fmt.Errorf("count issues: %w", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		if total == 0 {
			fmt.Println("No playthroughs found.")
			return nil
		}

		fmt.Printf("%-30s  %6s\n", "Issue", "Count")
		fmt.Println(strings.Repeat("─", 38))
		for _, it := range []playthrough.IssueType{
			playthrough.IssueEarlyQuit,
			playthrough.IssueMultipleIncorrectSubmissions,
			playthrough.IssueCyclicStateTransitions,
		} {
			fmt.Printf("%-30s  %6d\n", it, counts[it])
		}
		fmt.Println(strings.Repeat("─", 38))
		fmt.Printf("%-30s  %6d\n", "TOTAL", total)

		if limit <= 0 {
			return nil
		}
		ps, err := svc.List(ctx, store.QueryOpts{ExpID: expID, IssueType: issueType, Limit: limit})
		if err != nil {
			return fmt.Errorf("list playthroughs: %w", err)
		}
		fmt.Println()
		for _, p := range ps {
			fmt.Printf("%s  %s  %-20s v%-3d %s\n",
				p.ID, p.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(p.ExpID, 20), p.ExpVersion, p.Describe())
		}
		return nil
	},
}

func init() {
	issuesCmd.Flags().String("exp", "", "Only this exploration")
	issuesCmd.Flags().String("type", "", "Only this issue type when listing")
	issuesCmd.Flags().IntP("limit", "n", 10, "Recent playthroughs to list (0 to skip)")
}
