package app

import (
	"context"
	"net/http"

	"platoon-pulse/internal/config"
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates the schema and mounts every module
// on router. The returned cleanup closes the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	if err := cfg.RequireJWTSecret(); err != nil {
		return nil, err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, cfg.DBMaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := Migrate(ctx, gormDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router.Use(middleware.RequestID())
	router.Use(middleware.NewHTTPMetrics(reg).Middleware())
	router.GET("/metrics", middleware.MetricsHandler(reg))
	router.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := registerModules(ctx, router, cfg, sqlDB, gormDB, rdb, reg, logger); err != nil {
		rdb.Close()
		sqlDB.Close()
		return nil, err
	}

	return func() {
		rdb.Close()
		sqlDB.Close()
	}, nil
}
