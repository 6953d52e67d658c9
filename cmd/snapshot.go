package cmd

import (
	"time"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/index"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <word_list> <out>",
		Short: "build the signature index once and write it as a binary snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			start := time.Now()

			idx, err := index.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := index.PersistSnapshot(args[1], idx); err != nil {
				return err
			}

			a.logger.Info().
				Str("source", args[0]).
				Str("snapshot", args[1]).
				Str("build_id", idx.BuildID().String()).
				Int("signatures", idx.Size()).
				Dur("elapsed", time.Since(start)).
				Msg("snapshot written")
			return nil
		},
	}
}
