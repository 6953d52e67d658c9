package cmd

import (
	"unicode/utf8"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/bench"

	"github.com/spf13/cobra"
)

func newBenchCmd(a *app) *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench [word_list] [word...]",
		Short: "measure how solve time grows with word length",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			r, err := a.loadResolver(a.wordListArg(args))
			if err != nil {
				return err
			}

			var words []string
			if len(args) > 1 {
				words = args[1:]
			} else {
				maxLetters, _ := cmd.Flags().GetInt("max-letters")
				for _, w := range bench.DefaultWords {
					if maxLetters <= 0 || utf8.RuneCountInString(w) <= maxLetters {
						words = append(words, w)
					}
				}
			}

			report, err := bench.Run(cmd.Context(), r, words)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	benchCmd.Flags().Int("max-letters", 16, "skip default words longer than this (0 = no limit)")
	return benchCmd
}
