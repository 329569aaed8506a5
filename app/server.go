package app

import (
	"net/http"

	"github.com/mocketh/walletd/app/controller"
	"github.com/mocketh/walletd/app/types"
	"github.com/mocketh/walletd/pkg/utils"
	"go.uber.org/zap"
)

// NewServer attaches the HTTP server to the app.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := utils.Env("ADDR", ":5000")

	app.Server = &http.Server{Addr: addr, Handler: controller.WithCORS(router)}
	app.Logger.Info("Starting server", zap.String("addr", addr))

	return nil
}
