package middleware

import (
	"errors"
	"strings"

	autherrors "platoon-pulse/internal/auth/errors"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/shared/token"

	"github.com/gin-gonic/gin"
)

type TokenParser interface {
	ParseAccess(raw string) (*token.Claims, error)
}

// AuthMiddleware accepts a bearer token or the access_token cookie and
// stores the caller in the gin context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWithError(c, autherrors.ErrTokenNotFound, nil)
			return
		}

		claims, err := tokens.ParseAccess(tokenString)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, token.ErrExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWithError(c, errObj, nil)
			return
		}

		actor := claims.Actor()
		identity.Set(c, actor)
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(identity.KeyRole)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, autherrors.ErrForbidden, nil)
	}
}
