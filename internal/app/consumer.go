package app

import (
	"context"

	"platoon-pulse/internal/attendance"
	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/cadetrecord"
	"platoon-pulse/internal/config"
	"platoon-pulse/internal/dashboard"
	"platoon-pulse/internal/events"
	"platoon-pulse/internal/linking"
	"platoon-pulse/internal/medical"
	"platoon-pulse/internal/messaging/kafka/consumer"
	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const consumerGroupPrefix = "platoon-pulse-"

func newReader(broker, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        consumerGroupPrefix + group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer runs the cadet_created and attendance_marked consumers until
// ctx is cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

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

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	medicalService := medical.NewService(medical.NewRepository(gormDB), logger)
	dashboardService := dashboard.NewService(
		cadet.NewRepository(gormDB),
		practice.NewRepository(gormDB),
		attendance.NewRepository(gormDB),
		linking.NewRepository(gormDB),
		cadetrecord.NewRepository(gormDB),
		rdb,
		cfg.DashboardCacheTTL,
		logger,
	)

	cadetReader := newReader(cfg.KafkaBroker, events.CadetCreatedTopic, "medical")
	defer cadetReader.Close()
	attendanceReader := newReader(cfg.KafkaBroker, events.AttendanceMarkedTopic, "dashboard")
	defer attendanceReader.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.Consume(gctx, cadetReader, "cadet_created", consumer.CadetCreatedHandler(medicalService, logger), logger)
		return nil
	})
	g.Go(func() error {
		consumer.Consume(gctx, attendanceReader, "attendance_marked", consumer.AttendanceMarkedHandler(dashboardService, logger), logger)
		return nil
	})

	err = g.Wait()
	logger.Info("consumers stopped")
	return err
}
