package middleware

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
)

var errAccountNotLinked = apperror.New(
	apperror.CodeForbidden,
	"Account is not linked to a cadet profile",
	http.StatusForbidden,
)

// RequireLinkedCadet guards self-service routes that act on the caller's
// own cadet profile.
func RequireLinkedCadet() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(identity.KeyCadetID) == "" {
			abortWithError(c, errAccountNotLinked, nil)
			return
		}
		c.Next()
	}
}
