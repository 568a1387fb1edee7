package app

import (
	"context"

	"platoon-pulse/internal/config"
	"platoon-pulse/internal/messaging/kafka"
	"platoon-pulse/internal/messaging/kafka/producer"
	"platoon-pulse/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox rows to kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, cfg.DBMaxRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	worker := producer.NewWorker(outboxRepo, kafkaWriter, producer.Options{
		PollInterval: cfg.OutboxPollInterval,
		Retention:    cfg.OutboxRetention,
	}, logger)

	logger.Info("outbox worker started", zap.Duration("poll_interval", cfg.OutboxPollInterval))
	worker.Run(ctx)
	logger.Info("outbox worker stopped")
	return nil
}
