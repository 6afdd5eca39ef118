package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/exploration"
)

var explorationsCmd = &cobra.Command{
	Use:     "explorations",
	Aliases: []string{"exp"},
	Short:   "Manage imported explorations",
}

var explorationsImportCmd = &cobra.Command{
	Use:   "import <exploration.yaml>...",
	Short: "Import exploration definitions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := exploration.NewService(st.ExplorationRepo(), logger)
		for _, path := range args {
			exp, err := exploration.LoadFile(path)
			if err != nil {
				return err
			}
			if err := svc.Import(cmd.Context(), exp); err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Printf("imported %s v%d (%d cards)\n", exp.ID, exp.Version, len(exp.States))
		}
		return nil
	},
}

var explorationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported explorations",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := exploration.NewService(st.ExplorationRepo(), logger).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No explorations imported.")
			return nil
		}
		for _, r := range recs {
			fmt.Printf("%-24s v%-4d %s\n", r.ID, r.Version, r.Title)
		}
		return nil
	},
}

func init() {
	explorationsCmd.AddCommand(explorationsImportCmd)
	explorationsCmd.AddCommand(explorationsListCmd)
}
