package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/clients/console"
	"max.ks1230/expenses-tracker/internal/clients/rates"
	"max.ks1230/expenses-tracker/internal/config"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/convert"
	"max.ks1230/expenses-tracker/internal/model/ledger"
	"max.ks1230/expenses-tracker/internal/model/tracker"
	"max.ks1230/expenses-tracker/internal/tracing"
)

const serviceName = "expenses-tracker"

func main() {
	// .env is optional; the api key may come from the real environment
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := tracing.Init(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer closer.Close()

	store := ledger.New(conf.App())
	if err = store.Load(); err != nil {
		logger.Fatal("failed to load expenses", zap.Error(err))
	}

	provider := rates.New(conf.Rates())
	converter := convert.New(provider, conf.App())
	service := tracker.NewService(store, converter)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	console.New(service, os.Stdin, os.Stdout).Run(ctx)
}
