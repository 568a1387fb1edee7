// Package identity carries the authenticated caller from the HTTP layer into
// services. Services receive an Actor as an explicit argument.
package identity

import "github.com/gin-gonic/gin"

const (
	RoleAdmin = "ADMIN"
	RoleCadet = "CADET"
)

// gin context keys set by the auth middleware
const (
	KeyUserID  = "user_id"
	KeyRole    = "role"
	KeyCadetID = "cadet_id"
)

type Actor struct {
	UserID  string
	Role    string
	CadetID string // empty until the account is linked to a cadet profile
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsLinked() bool {
	return a.CadetID != ""
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCadet
}

// FromGin reads the actor stored by the auth middleware.
func FromGin(c *gin.Context) Actor {
	return Actor{
		UserID:  c.GetString(KeyUserID),
		Role:    c.GetString(KeyRole),
		CadetID: c.GetString(KeyCadetID),
	}
}

// Set is used by the auth middleware and by handler tests.
func Set(c *gin.Context, a Actor) {
	c.Set(KeyUserID, a.UserID)
	c.Set(KeyRole, a.Role)
	c.Set(KeyCadetID, a.CadetID)
}
