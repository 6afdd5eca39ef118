package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/playlens/internal/config"
	"github.com/abhisek/playlens/internal/logging"
	"github.com/abhisek/playlens/internal/store"
)

var (
	cfgFile string
	verbose bool

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "playlens",
	Short: "Learner playthrough analysis for interactive lessons",
	Long: "playlens records learner playthroughs of interactive lessons, flags the ones " +
		"that show an issue, and renders them as numbered display blocks for lesson authors.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		// The TUI owns the terminal, so it only logs to a file.
		opts := logging.Options{Level: cfg.LogLevel, Verbose: verbose}
		if cmd == cmd.Root() {
			if cfg.LogFile == "" {
				return nil
			}
			if err := store.EnsureDir(cfg.LogFile); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			opts.OutputPaths = []string{cfg.LogFile}
		}
		logger, err = logging.New(opts)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLAYLENS_DB and config)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default $XDG_CONFIG_HOME/playlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(ruleCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(explorationsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file and PLAYLENS_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return s, nil
}
