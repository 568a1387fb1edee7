package app

import (
	"context"
	"database/sql"

	"platoon-pulse/internal/attendance"
	"platoon-pulse/internal/auth"
	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/cadetrecord"
	"platoon-pulse/internal/config"
	"platoon-pulse/internal/dashboard"
	"platoon-pulse/internal/linking"
	"platoon-pulse/internal/medical"
	"platoon-pulse/internal/messaging/kafka"
	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/rbac"
	"platoon-pulse/internal/rbac/infra"
	"platoon-pulse/internal/shared/counter"
	"platoon-pulse/internal/shared/token"
	"platoon-pulse/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	reg prometheus.Registerer,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	cadetRepo := cadet.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	practiceRepo := practice.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	cadetRecordRepo := cadetrecord.NewRepository(gormDB)
	medicalRepo := medical.NewRepository(gormDB)
	linkingRepo := linking.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// --- Services ---
	authService := auth.NewService(userRepo, tokens, logger)
	userService := user.NewService(userRepo, logger)
	cadetService := cadet.NewService(db, cadetRepo, counterRepo, outboxRepo, rdb, logger)
	practiceService := practice.NewService(practiceRepo, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, practiceRepo, outboxRepo, attendance.Options{
		Location: cfg.Location,
		Metrics:  attendance.NewMetrics(reg),
	}, logger)
	cadetRecordService := cadetrecord.NewService(cadetRecordRepo, rdb, logger)
	medicalService := medical.NewService(medicalRepo, logger)
	linkingService := linking.NewService(db, linkingRepo, cadetRepo, rdb, logger)
	dashboardService := dashboard.NewService(
		cadetRepo, practiceRepo, attendanceRepo, linkingRepo, cadetRecordRepo,
		rdb, cfg.DashboardCacheTTL, logger,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	userHandler := user.NewHandler(userService, logger)
	cadetHandler := cadet.NewHandler(cadetService, logger)
	practiceHandler := practice.NewHandler(practiceService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	cadetRecordHandler := cadetrecord.NewHandler(cadetRecordService, logger)
	medicalHandler := medical.NewHandler(medicalService)
	linkingHandler := linking.NewHandler(linkingService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, tokens)
		user.RegisterRoutes(api, userHandler, rbacService, tokens, logger)
		cadet.RegisterRoutes(api, cadetHandler, rbacService, tokens, rdb, logger)
		practice.RegisterRoutes(api, practiceHandler, rbacService, tokens, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, tokens, rdb, logger)
		cadetrecord.RegisterRoutes(api, cadetRecordHandler, rbacService, tokens, logger)
		medical.RegisterRoutes(api, medicalHandler, rbacService, tokens, logger)
		linking.RegisterRoutes(api, linkingHandler, rbacService, tokens, logger)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService, tokens, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, tokens, logger)
	}

	return nil
}
