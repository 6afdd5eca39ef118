package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/store"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [playthrough-id]",
	Short: "Render a playthrough as numbered display blocks",
	Long: "Render a stored playthrough, or one read with --file, as display blocks of " +
		"learner actions, oldest first. Card details come from the imported exploration.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asHTML, _ := cmd.Flags().GetBool("html")
		minSize, _ := cmd.Flags().GetInt("min-block-size")
		if (file == "") == (len(args) == 0) {
			return errors.New("pass either a playthrough ID or --file")
		}
		if minSize <= 0 {
			minSize = cfg.Render.MinBlockSize
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

		var lookup actionrender.StateLookup
		exp, err := exploration.NewService(st.ExplorationRepo(), logger).ForPlaythrough(ctx, p.ExpID, p.ExpVersion)
		if err != nil {
			return err
		}
		if exp != nil {
			lookup = exp
		} else {
			fmt.Fprintf(os.Stderr, "exploration %s not imported; card details are missing\n", p.ExpID)
		}

		blocks := actionrender.Partitioner{MinBlockSize: minSize}.DisplayBlocks(p.Actions)
		r := actionrender.NewRenderer(lookup)

		fmt.Printf("Playthrough %s  %s v%d\n", p.ID, p.ExpID, p.ExpVersion)
		fmt.Printf("%s: %s\n\n", p.IssueType, p.Describe())

		if asHTML {
			misFinal := p.IssueType == playthrough.IssueMultipleIncorrectSubmissions
			for i, block := range r.RenderDisplayBlocks(blocks, misFinal) {
				fmt.Printf("<!-- block %d -->\n", i+1)
				for _, h := range block {
					fmt.Println(h)
				}
			}
			return nil
		}
		for i, block := range r.RenderDisplayBlocksText(blocks) {
			fmt.Printf("Block %d\n", i+1)
			for _, line := range block {
				fmt.Println("  " + line)
			}
			fmt.Println()
		}
		return nil
	},
}

func loadPlaythrough(ctx context.Context, st *store.Store, file string, args []string) (*playthrough.Playthrough, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return playthrough.ParseJSON(raw)
	}
	p, err := playthrough.NewService(st.PlaythroughRepo(), logger).Get(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("playthrough %s not found", args[0])
	}
	return p, err
}

func init() {
	blocksCmd.Flags().StringP("file", "f", "", "Read the playthrough from a backend JSON file")
	blocksCmd.Flags().Bool("html", false, "Print the HTML fragments shown in the editor")
	blocksCmd.Flags().Int("min-block-size", 0, "Minimum actions per block (default from config)")
}
