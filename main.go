package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ZanzyTHEbar/jumble-solver/cmd"
)

func main() {
	// interrupt cancels long solves and stops the server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
