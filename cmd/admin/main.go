package main

import (
	"context"
	"errors"
	"os"

	"platoon-pulse/internal/app"
	"platoon-pulse/internal/bootstrap"
	"platoon-pulse/internal/config"
	"platoon-pulse/internal/shared/connection"
	"platoon-pulse/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg, "admin")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, cfg.DBMaxRetries)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("open database failed", zap.Error(err))
	}
	defer sqlDB.Close()

	userRepo := user.NewRepository(gormDB)
	cli := commandLine{
		users:   user.NewService(userRepo, logger),
		lookup:  userRepo,
		migrate: func(ctx context.Context) error { return app.Migrate(ctx, gormDB) },
		audit:   bootstrap.NewZapAuditLogger(logger),
		logger:  logger,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("admin command failed", zap.Error(err))
		}
		sqlDB.Close()
		os.Exit(1)
	}
}
