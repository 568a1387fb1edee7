package middleware

import (
	"platoon-pulse/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger carrying the request id and the caller.
// It runs after AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if contextutil.GetRequestID(ctx) == "" {
			rid := uuid.NewString()
			c.Set(keyRequestID, rid)
			c.Header(HeaderRequestID, rid)
			ctx = contextutil.WithRequestID(ctx, rid)
		}

		ctx = contextutil.WithLogger(ctx, logger.With(contextutil.Fields(ctx)...))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
