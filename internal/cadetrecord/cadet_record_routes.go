package cadetrecord

import (
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) {
	auth := []gin.HandlerFunc{
		middleware.AuthMiddleware(tokens),
		middleware.ContextLogger(logger),
	}

	cadets := r.Group("/cadets", auth...)
	{
		cadets.GET("/:id/records",
			middleware.RBACAuthorize(rbacService, "cadet_record", "read"),
			handler.ListByCadet,
		)
		cadets.POST("/:id/records",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "cadet_record", "manage"),
			handler.Create,
		)
	}

	records := r.Group("/cadet-records", auth...)
	{
		records.GET("/me",
			middleware.RBACAuthorize(rbacService, "cadet_record", "read_own"),
			middleware.RequireLinkedCadet(),
			handler.ListMine,
		)
		records.GET("/:id",
			middleware.RBACAuthorize(rbacService, "cadet_record", "read"),
			handler.GetByID,
		)
		records.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "cadet_record", "manage"),
			handler.Update,
		)
		records.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "cadet_record", "manage"),
			handler.Delete,
		)
	}
}
