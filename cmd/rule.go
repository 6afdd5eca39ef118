package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/setinput"
)

var ruleCmd = &cobra.Command{
	Use:   "rule [rule-type]",
	Short: "Evaluate SetInput rules against an answer",
	Long: "Evaluate a SetInput rule, or every rule when none is named, against a learner " +
		"answer and a rule input. Order and duplicates are ignored.",
	Example: "  playlens rule Equals --answer 1/2,2/4 --x 2/4,1/2",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, _ := cmd.Flags().GetStringSlice("answer")
		x, _ := cmd.Flags().GetStringSlice("x")
		input := setinput.RuleInput{X: x}

		names := setinput.RuleTypes()
		if len(args) == 1 {
			names = args
		}
		for _, name := range names {
			ok, err := setinput.Evaluate(name, answer, input)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Println(ok)
				continue
			}
			fmt.Printf("%-18s %t\n", name, ok)
		}
		return nil
	},
}

func init() {
	ruleCmd.Flags().StringSlice("answer", nil, "Learner answer elements, comma separated")
	ruleCmd.Flags().StringSlice("x", nil, "Rule input elements, comma separated")
}
