package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/exploration"
	"github.com/abhisek/playlens/internal/playthrough"
	"github.com/abhisek/playlens/internal/session"
	"github.com/abhisek/playlens/internal/store"
	"github.com/abhisek/playlens/internal/ui/components"
)

var playCmd = &cobra.Command{
	Use:   "play <exp-id>",
	Short: "Play an imported exploration and record the run",
	Long: "Play an imported exploration card by card. SetInput answers are comma separated; " +
		"enter q (or end the input) to quit. Sampled runs that show an issue are stored as " +
		"playthroughs.",
	Example: "  playlens play fractions-intro --probability 1",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetInt("exp-version")
		probability := cfg.Playthrough.RecordingProbability
		if cmd.Flags().Changed("probability") {
			probability, _ = cmd.Flags().GetFloat64("probability")
		}
		if probability < 0 || probability > 1 {
			return fmt.Errorf("probability %v is outside [0, 1]", probability)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		exp, err := exploration.NewService(st.ExplorationRepo(), logger).Get(ctx, args[0], version)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("exploration %q is not imported", args[0])
		}
		if err != nil {
			return fmt.Errorf("load exploration: %w", err)
		}

		rec := playthrough.NewRecorder(exp.ID, exp.Version, probability,
			playthrough.WithThresholds(cfg.Playthrough.Thresholds),
			playthrough.WithLogger(logger),
		)
		sess := session.New(exp, rec)
		out := cmd.OutOrStdout()

		p, playErr := play(sess, bufio.NewScanner(cmd.InOrStdin()), out)
		if p == nil {
			fmt.Fprintln(out, "No playthrough recorded.")
			return playErr
		}
		if err := playthrough.NewService(st.PlaythroughRepo(), logger).Save(ctx, p); err != nil {
			return errors.Join(playErr, fmt.Errorf("save playthrough: %w", err))
		}
		logger.Info("playthrough recorded",
			zap.String("id", p.ID),
			zap.String("exp_id", p.ExpID),
			zap.String("issue_type", string(p.IssueType)),
		)
		fmt.Fprintf(out, "Recorded playthrough %s: %s\n", p.ID, p.Describe())
		return playErr
	},
}

// play runs the card loop until the learner finishes or quits and returns
// the playthrough to store, if any.
func play(sess *session.Session, in *bufio.Scanner, out io.Writer) (*playthrough.Playthrough, error) {
	for !sess.AtEnd() {
		card := sess.Card()
		fmt.Fprintf(out, "\n[%s] %s\n", sess.Current(), card.Content)

		switch card.Interaction.ID {
		case actionrender.ContinueInteractionID:
			fmt.Fprint(out, "Press enter to continue (q to quit) > ")
		case exploration.SetInputInteractionID:
			fmt.Fprint(out, "Your answer, comma separated (q to quit) > ")
		default:
			return sess.Quit(), fmt.Errorf("card %q uses unsupported interaction %q", sess.Current(), card.Interaction.ID)
		}

		if !in.Scan() {
			fmt.Fprintln(out)
			return sess.Quit(), in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "q" || line == "quit" {
			return sess.Quit(), nil
		}

		var outcome exploration.Outcome
		var err error
		if card.Interaction.ID == actionrender.ContinueInteractionID {
			outcome, err = sess.Continue()
		} else {
			outcome, err = sess.Submit(components.SplitElements(line))
		}
		if err != nil {
			return sess.Quit(), err
		}
		if outcome.Feedback != "" {
			fmt.Fprintln(out, outcome.Feedback)
		}
	}

	fmt.Fprintf(out, "\n[%s] %s\n", sess.Current(), sess.Card().Content)
	return sess.Complete(), nil
}

func init() {
	playCmd.Flags().Int("exp-version", 0, "Exploration version to play (default latest)")
	playCmd.Flags().Float64("probability", 0, "Recording probability for this run (default from config)")
}
