package app

import (
	"context"

	"github.com/mocketh/walletd/app/types"
	"github.com/mocketh/walletd/pkg/db"
	"github.com/mocketh/walletd/pkg/logging"
	"github.com/mocketh/walletd/pkg/notify"
	"github.com/mocketh/walletd/pkg/price"
	"github.com/mocketh/walletd/pkg/signature"
	"github.com/mocketh/walletd/pkg/utils"
	"github.com/mocketh/walletd/pkg/wallet"
	"go.uber.org/zap"
)

// Initialize wires the application together.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	database, dbErr := db.New(ctx, logger)
	if dbErr != nil {
		logger.Fatal("Unable to initialize database", zap.Error(dbErr))
	}
	if err := database.Init(ctx); err != nil {
		logger.Fatal("Unable to initialize wallet tables", zap.Error(err))
	}

	// Redis-backed rate caching is optional.
	var rateCache *price.Cache
	if utils.EnvBool("REDIS_ENABLED", false) {
		rateCache, err = price.NewCache(ctx, logger)
		if err != nil {
			logger.Warn("Failed to initialize Redis client - rate caching disabled", zap.Error(err))
			rateCache = nil
		}
	}

	sink := notify.NewSink(notify.NewSMTPMailer(), logger)
	engine := wallet.NewEngine(
		database,
		price.New(logger, rateCache),
		signature.New(logger),
		sink,
		logger,
	)

	return &types.App{
		Logger:    logger,
		DB:        database,
		Engine:    engine,
		Sink:      sink,
		RateCache: rateCache,
	}
}
