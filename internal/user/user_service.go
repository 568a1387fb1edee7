package user

import (
	"context"
	"strings"

	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/identity"
	usererrors "platoon-pulse/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

type Service interface {
	GetAll(ctx context.Context, role string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, actor identity.Actor, id string, isActive bool) error
	ChangePassword(ctx context.Context, actor identity.Actor, currentPassword, newPassword string) error
	ForceResetPassword(ctx context.Context, id, newPassword string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, role string) ([]UserResponse, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != "" && !identity.ValidRole(role) {
		return nil, usererrors.ErrInvalidRole
	}

	users, err := s.repo.FindAll(ctx, role)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}

	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*u), nil
}

// CreateAdmin is only reachable from the admin CLI; signup always creates
// CADET accounts.
func (s *service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if len(req.Password) < MinPasswordLength {
		return UserResponse{}, usererrors.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Role:     identity.RoleAdmin,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("failed to create admin", zap.String("email", u.Email), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("admin account created", zap.String("user_id", u.ID.String()), zap.String("email", u.Email))
	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, actor identity.Actor, id string, isActive bool) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if !isActive && actor.UserID == id {
		return usererrors.ErrCannotDeactivateSelf
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		l.Error("failed to find user", zap.String("user_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	u.IsActive = isActive

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("failed to update user status", zap.Error(err))
		return err
	}

	l.Info("user status changed", zap.String("user_id", id), zap.Bool("is_active", isActive), zap.String("by", actor.UserID))
	return nil
}

func (s *service) ChangePassword(ctx context.Context, actor identity.Actor, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if len(newPassword) < MinPasswordLength {
		return usererrors.ErrWeakPassword
	}

	u, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash new password", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) ForceResetPassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return usererrors.ErrWeakPassword
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CadetID:   u.CadetIDString(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
