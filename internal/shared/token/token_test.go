package token

import (
	"testing"
	"time"

	"platoon-pulse/internal/shared/identity"

	"github.com/stretchr/testify/assert"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, time.Hour)
	actor := identity.Actor{UserID: "u-1", Role: identity.RoleCadet, CadetID: "c-1"}

	pair, err := m.Issue(actor)
	assert.NoError(t, err)

	claims, err := m.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, actor, claims.Actor())

	refresh, err := m.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", refresh.UserID)
}

func TestManager_RejectsWrongType(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	pair, err := m.Issue(identity.Actor{UserID: "u-1", Role: identity.RoleAdmin})
	assert.NoError(t, err)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestManager_RejectsOtherSecret(t *testing.T) {
	pair, err := NewManager("one", time.Minute, time.Hour).Issue(identity.Actor{UserID: "u", Role: identity.RoleAdmin})
	assert.NoError(t, err)

	_, err = NewManager("two", time.Minute, time.Hour).ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	issued := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	pair, err := m.Issue(identity.Actor{UserID: "u", Role: identity.RoleCadet})
	assert.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestManager_Garbage(t *testing.T) {
	_, err := NewManager("s", time.Minute, time.Minute).ParseAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalid)
}
