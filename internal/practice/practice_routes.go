package practice

import (
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /sessions. Attendance routes nested under
// /sessions/:id are registered by the attendance package on the same group.
func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware(tokens))
	sessions.Use(middleware.ContextLogger(logger))
	{
		sessions.GET("", middleware.RBACAuthorize(rbacService, "session", "read"), h.GetAll)
		sessions.GET("/:id", middleware.RBACAuthorize(rbacService, "session", "read"), h.GetByID)
		sessions.POST("", middleware.RBACAuthorize(rbacService, "session", "manage"), h.Create)
		sessions.DELETE("/:id", middleware.RBACAuthorize(rbacService, "session", "manage"), h.Delete)
	}
}
