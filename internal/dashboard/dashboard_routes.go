package dashboard

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
	r.GET("/dashboard",
		middleware.AuthMiddleware(tokens),
		middleware.ContextLogger(logger),
		middleware.RBACAuthorize(rbacService, "dashboard", "read"),
		handler.Get,
	)
}
