package attendance

import (
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	auth := []gin.HandlerFunc{
		middleware.AuthMiddleware(tokens),
		middleware.ContextLogger(logger),
	}

	sessions := r.Group("/sessions", auth...)
	{
		sessions.POST("/:id/attendance/entry",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			middleware.RequireLinkedCadet(),
			handler.MarkEntry,
		)

		sessions.POST("/:id/attendance/exit",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			middleware.RequireLinkedCadet(),
			handler.MarkExit,
		)

		sessions.PUT("/:id/attendance",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			middleware.Idempotency(rdb, logger),
			handler.ManualMark,
		)

		sessions.GET("/:id/attendance",
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			handler.ListBySession,
		)

		sessions.GET("/:id/report",
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.GetReport,
		)

		sessions.GET("/:id/report/download",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.DownloadReport,
		)
	}

	records := r.Group("/attendance", auth...)
	{
		records.GET("/me",
			middleware.RBACAuthorize(rbacService, "attendance", "read_own"),
			middleware.RequireLinkedCadet(),
			handler.GetMyHistory,
		)

		records.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "attendance", "manage"),
			handler.Delete,
		)
	}

	cadets := r.Group("/cadets", auth...)
	cadets.GET("/:id/attendance",
		middleware.RBACAuthorize(rbacService, "attendance", "read"),
		handler.GetCadetHistory,
	)
}
