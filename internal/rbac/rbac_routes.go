package rbac

import (
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, tokens middleware.TokenParser, logger *zap.Logger) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(tokens))
	group.Use(middleware.ContextLogger(logger))
	{
		group.POST("/enforce", handler.Enforce)

		manage := group.Group("", middleware.RoleMiddleware(identity.RoleAdmin), middleware.RBACAuthorize(service, "rbac", "manage"))
		manage.GET("/permissions", handler.ListPermissions)
		manage.POST("/permissions", handler.Grant)
		manage.DELETE("/permissions", handler.Revoke)
	}
}
