package rbac

import (
	"context"
	"strings"
	"sync"

	rbacerrors "platoon-pulse/internal/rbac/errors"
	"platoon-pulse/internal/shared/identity"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(role, resource, action string) (bool, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	Grant(ctx context.Context, req PermissionRequest) error
	Revoke(ctx context.Context, req PermissionRequest) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy replaces the in-memory policy with the role_permissions table.
func (s *service) LoadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked(ctx)
}

func (s *service) loadPolicyUnlocked(ctx context.Context) error {
	rolePerms, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		return err
	}

	s.enforcer.ClearPolicy()

	for _, pair := range RoleInheritance {
		if _, err := s.enforcer.AddGroupingPolicy(pair[0], pair[1]); err != nil {
			return err
		}
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("role_permissions", len(rolePerms)))
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	rows, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, PermissionResponse{Role: r.Role, Resource: r.Resource, Action: r.Action})
	}
	return resp, nil
}

func (s *service) Grant(ctx context.Context, req PermissionRequest) error {
	p := normalize(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.AddRolePermission(ctx, p); err != nil {
		return err
	}
	s.logger.Info("permission granted", zap.String("role", p.Role), zap.String("resource", p.Resource), zap.String("action", p.Action))
	return s.loadPolicyUnlocked(ctx)
}

func (s *service) Revoke(ctx context.Context, req PermissionRequest) error {
	p := normalize(req)
	if p.Role == identity.RoleAdmin && p.Resource == "rbac" && p.Action == "manage" {
		return rbacerrors.ErrProtectedPermission
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.RemoveRolePermission(ctx, p)
	if err != nil {
		return err
	}
	if !removed {
		return rbacerrors.ErrPermissionNotFound
	}
	s.logger.Info("permission revoked", zap.String("role", p.Role), zap.String("resource", p.Resource), zap.String("action", p.Action))
	return s.loadPolicyUnlocked(ctx)
}

func normalize(req PermissionRequest) RolePermission {
	return RolePermission{
		Role:     strings.ToUpper(strings.TrimSpace(req.Role)),
		Resource: strings.ToLower(strings.TrimSpace(req.Resource)),
		Action:   strings.ToLower(strings.TrimSpace(req.Action)),
	}
}
