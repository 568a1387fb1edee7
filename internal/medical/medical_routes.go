package medical

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

	r.Group("/medical", auth...).GET("/me",
		middleware.RBACAuthorize(rbacService, "medical", "read_own"),
		middleware.RequireLinkedCadet(),
		handler.GetMine,
	)

	cadets := r.Group("/cadets", auth...)
	{
		cadets.GET("/:id/medical",
			middleware.RBACAuthorize(rbacService, "medical", "read"),
			handler.GetByCadet,
		)
		cadets.PUT("/:id/medical",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "medical", "manage"),
			handler.Upsert,
		)
	}
}
