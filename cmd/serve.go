package cmd

import (
	"github.com/ZanzyTHEbar/jumble-solver/jumble/server"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve [word_list]",
		Short: "serve solve requests over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if cmd.Flags().Changed("address") {
				a.cfg.Server.Address, _ = cmd.Flags().GetString("address")
			}

			r, err := a.loadResolver(a.wordListArg(args))
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("address", a.cfg.Server.Address).
				Dur("solve_timeout", a.cfg.Solver.Timeout()).
				Msg("starting server")

			return server.New(r, server.Options{
				Address:      a.cfg.Server.Address,
				SolveTimeout: a.cfg.Solver.Timeout(),
			}).Run(cmd.Context())
		},
	}
	serveCmd.Flags().String("address", "", "listen address (default from config, :8080)")
	return serveCmd
}
