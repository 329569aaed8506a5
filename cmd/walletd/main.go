package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mocketh/walletd/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	walletApp := app.Initialize(ctx)

	if err := app.NewServer(walletApp); err != nil {
		walletApp.Logger.Fatal("Unable to initialize server", zap.Error(err))
	}

	walletApp.Start(ctx)
}
