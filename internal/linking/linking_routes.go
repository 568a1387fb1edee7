package linking

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
	requests := r.Group("/linking-requests")
	requests.Use(middleware.AuthMiddleware(tokens))
	requests.Use(middleware.ContextLogger(logger))
	{
		requests.POST("",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, "linking", "request"),
			handler.Create,
		)
		requests.GET("/me",
			middleware.RBACAuthorize(rbacService, "linking", "request"),
			handler.GetMine,
		)
		requests.POST("/:id/cancel",
			middleware.RBACAuthorize(rbacService, "linking", "request"),
			handler.Cancel,
		)

		requests.GET("",
			middleware.RBACAuthorize(rbacService, "linking", "review"),
			handler.GetAll,
		)
		requests.POST("/:id/approve",
			middleware.RBACAuthorize(rbacService, "linking", "review"),
			handler.Approve,
		)
		requests.POST("/:id/reject",
			middleware.RBACAuthorize(rbacService, "linking", "review"),
			handler.Reject,
		)
	}
}
