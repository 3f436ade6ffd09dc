package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dirsnap/cmd/snap/commands"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("snap failed")
	}
}
