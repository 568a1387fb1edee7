package user_test

import (
	"context"
	"errors"
	"testing"

	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/user"
	usererrors "platoon-pulse/internal/user/errors"
	mock_user "platoon-pulse/internal/user/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo, zap.NewNop())
	return mockRepo, svc
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success with role filter", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindAll(gomock.Any(), identity.RoleCadet).
			Return([]user.User{
				{ID: uuid.New(), Email: "cadet@mail.com", Role: identity.RoleCadet, IsActive: true},
			}, nil)

		res, err := svc.GetAll(ctx, "cadet")

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "cadet@mail.com", res[0].Email)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetAll(ctx, "owner")
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindAll(gomock.Any(), "").
			Return(nil, errors.New("db error"))

		res, err := svc.GetAll(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cadetID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), userID.String()).
			Return(&user.User{ID: userID, Email: "a@mail.com", Role: identity.RoleCadet, CadetID: &cadetID}, nil)

		res, err := svc.GetByID(ctx, userID.String())

		assert.NoError(t, err)
		assert.Equal(t, cadetID.String(), res.CadetID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), userID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, userID.String())
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_CreateAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, identity.RoleAdmin, u.Role)
				assert.Equal(t, "chief@corps.id", u.Email)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("supersecret")))
				return nil
			})

		res, err := svc.CreateAdmin(ctx, user.CreateAdminRequest{Name: "Chief", Email: " Chief@Corps.id ", Password: "supersecret"})

		assert.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, res.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"})

		_, err := svc.CreateAdmin(ctx, user.CreateAdminRequest{Name: "Chief", Email: "chief@corps.id", Password: "supersecret"})
		assert.ErrorIs(t, err, usererrors.ErrUserAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.CreateAdmin(ctx, user.CreateAdminRequest{Name: "Chief", Email: "chief@corps.id", Password: "short"})
		assert.ErrorIs(t, err, usererrors.ErrWeakPassword)
	})
}

func TestUserService_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	admin := identity.Actor{UserID: uuid.NewString(), Role: identity.RoleAdmin}
	targetID := uuid.New()

	t.Run("deactivate", func(t *testing.T) {
		mockRepo, svc := setup(t)
		target := &user.User{ID: targetID, IsActive: true}

		mockRepo.EXPECT().FindByID(gomock.Any(), targetID.String()).Return(target, nil)
		mockRepo.EXPECT().Update(gomock.Any(), target).Return(nil)

		err := svc.ToggleStatus(ctx, admin, targetID.String(), false)

		assert.NoError(t, err)
		assert.False(t, target.IsActive)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		_, svc := setup(t)

		err := svc.ToggleStatus(ctx, admin, admin.UserID, false)
		assert.ErrorIs(t, err, usererrors.ErrCannotDeactivateSelf)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	actor := identity.Actor{UserID: uuid.NewString(), Role: identity.RoleCadet}
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.MinCost)

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := &user.User{Password: string(hash)}

		mockRepo.EXPECT().FindByID(gomock.Any(), actor.UserID).Return(u, nil)
		mockRepo.EXPECT().Update(gomock.Any(), u).Return(nil)

		err := svc.ChangePassword(ctx, actor, "oldpassword", "newpassword")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpassword")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().FindByID(gomock.Any(), actor.UserID).Return(&user.User{Password: string(hash)}, nil)

		err := svc.ChangePassword(ctx, actor, "guess", "newpassword")
		assert.ErrorIs(t, err, usererrors.ErrWrongPassword)
	})
}

func TestUserService_ForceResetPassword(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	mockRepo, svc := setup(t)
	u := &user.User{Password: "x"}
	mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(u, nil)
	mockRepo.EXPECT().Update(gomock.Any(), u).Return(nil)

	assert.NoError(t, svc.ForceResetPassword(ctx, id, "brandnewpass"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("brandnewpass")))
}
