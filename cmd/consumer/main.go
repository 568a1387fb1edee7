package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"platoon-pulse/internal/app"
	"platoon-pulse/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg, "consumer")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsumer(ctx, cfg); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
