package auth

import (
	"context"
	"strings"

	autherrors "platoon-pulse/internal/auth/errors"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/shared/token"
	"platoon-pulse/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminDashboardPath = "/admin/dashboard"
	CadetDashboardPath = "/cadet/dashboard"
)

type TokenManager interface {
	Issue(a identity.Actor) (token.Pair, error)
	ParseRefresh(raw string) (*token.Claims, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (token.Pair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (token.Pair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	users  user.Repository
	tokens TokenManager
	logger *zap.Logger
}

func NewService(users user.Repository, tokens TokenManager, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, tokens: tokens, logger: l}
}

// Signup always creates a CADET account; it is linked to a cadet profile
// later through a linking request.
func (s *service) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     identity.RoleCadet,
		IsActive: true,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if dberr.IsUniqueViolation(err, "uq_users_email") {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		l.Error("signup persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	l.Info("account created", zap.String("user_id", u.ID.String()))
	return toResponse(u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (token.Pair, AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !dberr.IsNotFound(err) {
			l.Error("login lookup failed", zap.Error(err))
			return token.Pair{}, AuthResponse{}, err
		}
		return token.Pair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		l.Warn("login wrong password", zap.String("user_id", u.ID.String()))
		return token.Pair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return token.Pair{}, AuthResponse{}, autherrors.ErrAccountInactive
	}

	pair, err := s.tokens.Issue(actorOf(u))
	if err != nil {
		l.Error("issue tokens failed", zap.Error(err))
		return token.Pair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return pair, toResponse(u), nil
}

// RefreshToken reloads the account so a role change or a newly approved
// cadet link shows up in the new access token.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (token.Pair, AuthResponse, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return token.Pair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
		}
		return token.Pair{}, AuthResponse{}, err
	}
	if !u.IsActive {
		return token.Pair{}, AuthResponse{}, autherrors.ErrAccountInactive
	}

	pair, err := s.tokens.Issue(actorOf(u))
	if err != nil {
		return token.Pair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return pair, toResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := toResponse(u)
	return &resp, nil
}

func actorOf(u *user.User) identity.Actor {
	return identity.Actor{UserID: u.ID.String(), Role: u.Role, CadetID: u.CadetIDString()}
}

func DashboardPathFor(role string) string {
	if role == identity.RoleAdmin {
		return AdminDashboardPath
	}
	return CadetDashboardPath
}

func toResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		CadetID:       u.CadetIDString(),
		DashboardPath: DashboardPathFor(u.Role),
	}
}
