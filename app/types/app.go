package types

import (
	"context"
	"net/http"
	"time"

	"github.com/mocketh/walletd/pkg/db"
	"github.com/mocketh/walletd/pkg/notify"
	"github.com/mocketh/walletd/pkg/price"
	"github.com/mocketh/walletd/pkg/wallet"
	"go.uber.org/zap"
)

// App carries the wired components for the walletd process.
type App struct {
	Logger    *zap.Logger
	DB        *db.Client
	Engine    *wallet.Engine
	Sink      *notify.Sink
	RateCache *price.Cache
	Server    *http.Server
}

// Start serves until the context is cancelled, then shuts down in order:
// stop accepting requests, drain pending notifications, release the stores.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Server shutdown failed", zap.Error(err))
	}

	a.Sink.Close()

	if a.RateCache != nil {
		if err := a.RateCache.Close(); err != nil {
			a.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	a.DB.Close()
	a.Logger.Info("Shutdown complete")
}
