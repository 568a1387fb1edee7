package rbac

import (
	"context"
	"errors"
	"testing"

	rbacerrors "platoon-pulse/internal/rbac/errors"
	"platoon-pulse/internal/rbac/infra"
	"platoon-pulse/internal/shared/identity"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRepo struct {
	perms   []RolePermission
	listErr error
}

func (f *fakeRepo) ListRolePermissions(context.Context) ([]RolePermission, error) {
	return append([]RolePermission(nil), f.perms...), f.listErr
}

func (f *fakeRepo) AddRolePermission(_ context.Context, p RolePermission) error {
	for _, existing := range f.perms {
		if existing == p {
			return nil
		}
	}
	f.perms = append(f.perms, p)
	return nil
}

func (f *fakeRepo) RemoveRolePermission(_ context.Context, p RolePermission) (bool, error) {
	for i, existing := range f.perms {
		if existing == p {
			f.perms = append(f.perms[:i], f.perms[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SeedDefaults(context.Context) error {
	f.perms = append([]RolePermission(nil), DefaultPermissions...)
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	return NewService(repo, enforcer, zap.NewNop())
}

func TestRBACService_DefaultPolicy(t *testing.T) {
	repo := &fakeRepo{}
	assert.NoError(t, repo.SeedDefaults(context.Background()))
	svc := newTestService(t, repo)
	assert.NoError(t, svc.LoadPolicy(context.Background()))

	cases := []struct {
		role, resource, action string
		allowed                bool
	}{
		{identity.RoleCadet, "attendance", "mark", true},
		{identity.RoleCadet, "attendance", "read_own", true},
		{identity.RoleCadet, "report", "read", false},
		{identity.RoleCadet, "attendance", "manage", false},
		{identity.RoleAdmin, "report", "read", true},
		{identity.RoleAdmin, "attendance", "manage", true},
		// inherited from CADET
		{identity.RoleAdmin, "attendance", "mark", true},
		{identity.RoleAdmin, "dashboard", "read", true},
		{"GUEST", "session", "read", false},
	}

	for _, tc := range cases {
		allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}

func TestRBACService_GrantAndRevoke(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()
	assert.NoError(t, svc.LoadPolicy(ctx))

	allowed, _ := svc.Enforce(identity.RoleCadet, "report", "read")
	assert.False(t, allowed)

	assert.NoError(t, svc.Grant(ctx, PermissionRequest{Role: "cadet", Resource: " Report ", Action: "READ"}))
	allowed, _ = svc.Enforce(identity.RoleCadet, "report", "read")
	assert.True(t, allowed)

	assert.NoError(t, svc.Revoke(ctx, PermissionRequest{Role: "CADET", Resource: "report", Action: "read"}))
	allowed, _ = svc.Enforce(identity.RoleCadet, "report", "read")
	assert.False(t, allowed)

	err := svc.Revoke(ctx, PermissionRequest{Role: "CADET", Resource: "report", Action: "read"})
	assert.ErrorIs(t, err, rbacerrors.ErrPermissionNotFound)
}

func TestRBACService_RevokeProtected(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	err := svc.Revoke(context.Background(), PermissionRequest{Role: "ADMIN", Resource: "rbac", Action: "manage"})
	assert.ErrorIs(t, err, rbacerrors.ErrProtectedPermission)
}

func TestRBACService_LoadPolicyError(t *testing.T) {
	svc := newTestService(t, &fakeRepo{listErr: errors.New("db down")})
	assert.EqualError(t, svc.LoadPolicy(context.Background()), "db down")
}
