package middleware

import (
	autherrors "platoon-pulse/internal/auth/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service; declared here so rbac can mount
// this middleware on its own routes.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

// RBACAuthorize lets the request through when the caller's role holds
// resource:action.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	permission := resource + ":" + action
	return func(c *gin.Context) {
		role := c.GetString(identity.KeyRole)
		if role == "" {
			abortWithError(c, autherrors.ErrTokenNotFound, nil)
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).
				Error("rbac enforce failed", zap.String("permission", permission), zap.Error(err))
			abortWithError(c, apperror.ErrInternal, nil)
			return
		}
		if !allowed {
			abortWithError(c, autherrors.ErrForbidden, gin.H{"required": permission})
			return
		}
		c.Next()
	}
}
