package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"pmwatch/cmd/pmwatch/cli"
	"pmwatch/internal/infrastructure/logger"
)

func main() {
	logger.Setup("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		if !errors.Is(err, cli.ErrMissingWallet) {
			log.Error().Err(err).Msg("pmwatch failed")
		}
		os.Exit(1)
	}
}
