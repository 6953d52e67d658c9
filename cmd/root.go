package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	internal "github.com/ZanzyTHEbar/jumble-solver/jumble"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/config"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/index"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/resolver"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand after config is loaded.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd builds the jumble command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jumble <word_list> <word> [word...]",
		Short: "find every dictionary word spelled by a subset of a word's letters",
		Long: `jumble files every word of a word list under its sorted-letter signature,
then looks up every distinct selection of two or more letters of each input
word. Results exclude the input word itself and are printed one per line.`,
		Args: cobra.MinimumNArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: a.runSolve,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default searches ./config.yaml and ~/.config/jumble)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("min-length", 0, "smallest letter selection to look up (default from config, 2)")
	rootCmd.PersistentFlags().Int("workers", -1, "concurrent solves when several words are given (0 = number of CPUs)")

	rootCmd.AddCommand(
		newSnapshotCmd(a),
		newServeCmd(a),
		newBenchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree under ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("min-length") {
		cfg.Solver.MinLength, _ = flags.GetInt("min-length")
	}
	if flags.Changed("workers") {
		cfg.Solver.Workers, _ = flags.GetInt("workers")
	}
	if cfg.Solver.MinLength < 1 {
		return fmt.Errorf("--min-length must be at least 1, got %d", cfg.Solver.MinLength)
	}

	a.cfg = cfg
	a.logger = internal.GetLogger(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(a.logger.GetLevel()),
	})))
	return nil
}

// loadResolver loads the word list or snapshot at path and wraps it in a
// resolver configured from the loaded config.
func (a *app) loadResolver(path string) (*resolver.Resolver, error) {
	idx, err := index.LoadFile(path)
	if err != nil {
		return nil, err
	}

	stats := idx.Stats()
	a.logger.Debug().
		Str("path", path).
		Str("build_id", idx.BuildID().String()).
		Int("words", stats.Words).
		Int("signatures", stats.Signatures).
		Msg("index loaded")

	return resolver.New(idx,
		resolver.WithMinLength(a.cfg.Solver.MinLength),
		resolver.WithWorkers(a.cfg.Solver.Workers),
	), nil
}

// wordListArg picks the word list from args, falling back to config.
func (a *app) wordListArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return a.cfg.WordList
}

func (a *app) runSolve(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	r, err := a.loadResolver(args[0])
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to load word list")
		return err
	}

	words := args[1:]
	out := cmd.OutOrStdout()

	if len(words) == 1 {
		res, err := r.SolveContext(cmd.Context(), words[0])
		if err != nil {
			return err
		}
		for _, w := range res.Words() {
			fmt.Fprintln(out, w)
		}
		return nil
	}

	results, err := r.SolveAll(cmd.Context(), words)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Fprintf(out, "%s:\n", res.Input())
		for _, w := range res.Words() {
			fmt.Fprintln(out, w)
		}
	}
	return nil
}

func slogLevel(lvl zerolog.Level) slog.Level {
	switch {
	case lvl <= zerolog.DebugLevel:
		return slog.LevelDebug
	case lvl == zerolog.InfoLevel:
		return slog.LevelInfo
	case lvl == zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
