package linking_test

import (
	"context"
	"database/sql"
	"testing"

	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/linking"
	linkingerrors "platoon-pulse/internal/linking/errors"
	"platoon-pulse/internal/shared/cachekey"
	"platoon-pulse/internal/shared/identity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	requests   map[string]*linking.LinkingRequest
	linked     map[string]bool
	linkedRows int64
	CreateFn   func(ctx context.Context, req *linking.LinkingRequest) error
	LinkUserFn func(ctx context.Context, userID, cadetID string) (int64, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[string]*linking.LinkingRequest{}, linked: map[string]bool{}, linkedRows: 1}
}

func (f *fakeRepo) WithTx(*sql.Tx) linking.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, req *linking.LinkingRequest) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, req)
	}
	cp := *req
	f.requests[req.ID.String()] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*linking.LinkingRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRepo) FindAll(_ context.Context, status string) ([]linking.LinkingRequest, error) {
	var rows []linking.LinkingRequest
	for _, req := range f.requests {
		if status == "" || req.Status == status {
			rows = append(rows, *req)
		}
	}
	return rows, nil
}

func (f *fakeRepo) FindByUser(_ context.Context, userID string) ([]linking.LinkingRequest, error) {
	var rows []linking.LinkingRequest
	for _, req := range f.requests {
		if req.UserID.String() == userID {
			rows = append(rows, *req)
		}
	}
	return rows, nil
}

func (f *fakeRepo) CountPending(context.Context) (int64, error) { return 0, nil }

func (f *fakeRepo) Update(_ context.Context, req *linking.LinkingRequest) error {
	cp := *req
	f.requests[req.ID.String()] = &cp
	return nil
}

func (f *fakeRepo) IsCadetLinked(_ context.Context, cadetID string) (bool, error) {
	return f.linked[cadetID], nil
}

func (f *fakeRepo) LinkUser(ctx context.Context, userID, cadetID string) (int64, error) {
	if f.LinkUserFn != nil {
		return f.LinkUserFn(ctx, userID, cadetID)
	}
	return f.linkedRows, nil
}

type fakeCadets struct {
	byNumber map[string]cadet.Cadet
}

func (f *fakeCadets) FindByApplicationNumber(_ context.Context, number string) (*cadet.Cadet, error) {
	c, ok := f.byNumber[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

type deps struct {
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeRepo
	service   linking.Service
}

var (
	admin     = identity.Actor{UserID: uuid.NewString(), Role: identity.RoleAdmin}
	requester = identity.Actor{UserID: uuid.NewString(), Role: identity.RoleCadet}
	target    = cadet.Cadet{ID: uuid.New(), FullName: "Rina Putri", ApplicationNumber: "APP-2024-001"}
)

func setup(t *testing.T) *deps {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := newFakeRepo()
	cadets := &fakeCadets{byNumber: map[string]cadet.Cadet{target.ApplicationNumber: target}}

	return &deps{
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		service:   linking.NewService(db, repo, cadets, rdb, zap.NewNop()),
	}
}

func seedPending(d *deps, userID string) string {
	id := uuid.New()
	d.repo.requests[id.String()] = &linking.LinkingRequest{
		ID:      id,
		UserID:  uuid.MustParse(userID),
		CadetID: target.ID,
		Status:  linking.StatusPending,
		Cadet:   &target,
	}
	return id.String()
}

func TestLinkingService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := setup(t)
		d.redisMock.ExpectDel(cachekey.DashboardAdmin).SetVal(1)

		note := "  my profile  "
		resp, err := d.service.Create(context.Background(), requester, linking.CreateLinkingRequest{
			ApplicationNumber: " APP-2024-001 ",
			Note:              &note,
		})

		assert.NoError(t, err)
		assert.Equal(t, linking.StatusPending, resp.Status)
		assert.Equal(t, target.ID.String(), resp.CadetID)
		assert.Equal(t, "Rina Putri", resp.CadetName)
		assert.Equal(t, "my profile", *resp.Note)
		assert.Len(t, d.repo.requests, 1)
		assert.NoError(t, d.redisMock.ExpectationsWereMet())
	})

	t.Run("account already linked", func(t *testing.T) {
		d := setup(t)
		linked := requester
		linked.CadetID = uuid.NewString()

		_, err := d.service.Create(context.Background(), linked, linking.CreateLinkingRequest{ApplicationNumber: target.ApplicationNumber})
		assert.ErrorIs(t, err, linkingerrors.ErrAlreadyLinked)
	})

	t.Run("unknown application number", func(t *testing.T) {
		d := setup(t)
		_, err := d.service.Create(context.Background(), requester, linking.CreateLinkingRequest{ApplicationNumber: "APP-0000-000"})
		assert.ErrorIs(t, err, linkingerrors.ErrCadetNotFound)
	})

	t.Run("cadet claimed by another account", func(t *testing.T) {
		d := setup(t)
		d.repo.linked[target.ID.String()] = true

		_, err := d.service.Create(context.Background(), requester, linking.CreateLinkingRequest{ApplicationNumber: target.ApplicationNumber})
		assert.ErrorIs(t, err, linkingerrors.ErrCadetAlreadyLinked)
		assert.Empty(t, d.repo.requests)
	})

	t.Run("pending request exists", func(t *testing.T) {
		d := setup(t)
		d.repo.CreateFn = func(context.Context, *linking.LinkingRequest) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_linking_requests_pending_user"}
		}

		_, err := d.service.Create(context.Background(), requester, linking.CreateLinkingRequest{ApplicationNumber: target.ApplicationNumber})
		assert.ErrorIs(t, err, linkingerrors.ErrPendingRequestExists)
	})
}

func TestLinkingService_Approve(t *testing.T) {
	t.Run("links the account", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)

		var linkedUser, linkedCadet string
		d.repo.LinkUserFn = func(_ context.Context, userID, cadetID string) (int64, error) {
			linkedUser, linkedCadet = userID, cadetID
			return 1, nil
		}
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.redisMock.ExpectDel(cachekey.DashboardAdmin).SetVal(1)

		resp, err := d.service.Approve(context.Background(), admin, id)

		assert.NoError(t, err)
		assert.Equal(t, linking.StatusApproved, resp.Status)
		assert.Equal(t, admin.UserID, *resp.ReviewedBy)
		assert.NotNil(t, resp.ReviewedAt)
		assert.Equal(t, requester.UserID, linkedUser)
		assert.Equal(t, target.ID.String(), linkedCadet)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
		assert.NoError(t, d.redisMock.ExpectationsWereMet())
	})

	t.Run("already reviewed", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.repo.requests[id].Status = linking.StatusRejected
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()

		_, err := d.service.Approve(context.Background(), admin, id)
		assert.ErrorIs(t, err, linkingerrors.ErrInvalidStatusTransition)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("cadet taken meanwhile", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.repo.LinkUserFn = func(context.Context, string, string) (int64, error) {
			return 0, &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_cadet_id"}
		}
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()

		_, err := d.service.Approve(context.Background(), admin, id)
		assert.ErrorIs(t, err, linkingerrors.ErrCadetAlreadyLinked)
		assert.Equal(t, linking.StatusPending, d.repo.requests[id].Status)
	})

	t.Run("account gone or linked", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.repo.linkedRows = 0
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()

		_, err := d.service.Approve(context.Background(), admin, id)
		assert.ErrorIs(t, err, linkingerrors.ErrAccountNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		d := setup(t)
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()

		_, err := d.service.Approve(context.Background(), admin, uuid.NewString())
		assert.ErrorIs(t, err, linkingerrors.ErrRequestNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		d := setup(t)
		_, err := d.service.Approve(context.Background(), admin, "nope")
		assert.ErrorIs(t, err, linkingerrors.ErrInvalidID)
	})
}

func TestLinkingService_Reject(t *testing.T) {
	t.Run("reason required", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)

		_, err := d.service.Reject(context.Background(), admin, id, "   ")
		assert.ErrorIs(t, err, linkingerrors.ErrRejectionReasonRequired)
	})

	t.Run("rejected", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.repo.LinkUserFn = func(context.Context, string, string) (int64, error) {
			t.Fatal("reject must not link the account")
			return 0, nil
		}
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.redisMock.ExpectDel(cachekey.DashboardAdmin).SetVal(1)

		resp, err := d.service.Reject(context.Background(), admin, id, "wrong cadet")
		assert.NoError(t, err)
		assert.Equal(t, linking.StatusRejected, resp.Status)
		assert.Equal(t, "wrong cadet", *resp.RejectionReason)
	})
}

func TestLinkingService_Cancel(t *testing.T) {
	t.Run("requester cancels", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.redisMock.ExpectDel(cachekey.DashboardAdmin).SetVal(1)

		resp, err := d.service.Cancel(context.Background(), requester, id)
		assert.NoError(t, err)
		assert.Equal(t, linking.StatusCancelled, resp.Status)
		assert.Nil(t, resp.ReviewedBy)
	})

	t.Run("someone else", func(t *testing.T) {
		d := setup(t)
		id := seedPending(d, requester.UserID)
		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()

		other := identity.Actor{UserID: uuid.NewString(), Role: identity.RoleCadet}
		_, err := d.service.Cancel(context.Background(), other, id)
		assert.ErrorIs(t, err, linkingerrors.ErrNotRequester)
	})
}

func TestLinkingService_GetAll(t *testing.T) {
	d := setup(t)
	seedPending(d, requester.UserID)
	done := seedPending(d, uuid.NewString())
	d.repo.requests[done].Status = linking.StatusApproved

	rows, err := d.service.GetAll(context.Background(), "pending")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = d.service.GetAll(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = d.service.GetAll(context.Background(), "archived")
	assert.ErrorIs(t, err, linkingerrors.ErrInvalidStatus)

	mine, err := d.service.GetMine(context.Background(), requester)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
}
