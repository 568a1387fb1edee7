package linking

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"platoon-pulse/internal/cadet"
	linkingerrors "platoon-pulse/internal/linking/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/cachekey"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CadetFinder is satisfied by cadet.Repository.
type CadetFinder interface {
	FindByApplicationNumber(ctx context.Context, applicationNumber string) (*cadet.Cadet, error)
}

//go:generate mockgen -source=linking_service.go -destination=mock/linking_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateLinkingRequest) (LinkingResponse, error)
	GetAll(ctx context.Context, status string) ([]LinkingResponse, error)
	GetMine(ctx context.Context, actor identity.Actor) ([]LinkingResponse, error)
	Approve(ctx context.Context, actor identity.Actor, id string) (LinkingResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id, reason string) (LinkingResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id string) (LinkingResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	cadets CadetFinder
	rdb    *redis.Client
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, cadets CadetFinder, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("linking.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("linking.service")
	}
	return &service{db: db, repo: repo, cadets: cadets, rdb: rdb, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateLinkingRequest) (LinkingResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LinkingResponse{}, apperror.ErrUnauthorized
	}
	if actor.IsLinked() {
		return LinkingResponse{}, linkingerrors.ErrAlreadyLinked
	}

	c, err := s.cadets.FindByApplicationNumber(ctx, strings.TrimSpace(req.ApplicationNumber))
	if err != nil {
		if dberr.IsNotFound(err) {
			return LinkingResponse{}, linkingerrors.ErrCadetNotFound
		}
		return LinkingResponse{}, err
	}

	linked, err := s.repo.IsCadetLinked(ctx, c.ID.String())
	if err != nil {
		return LinkingResponse{}, err
	}
	if linked {
		return LinkingResponse{}, linkingerrors.ErrCadetAlreadyLinked
	}

	lr := &LinkingRequest{
		ID:      uuid.New(),
		UserID:  userID,
		CadetID: c.ID,
		Note:    trimPtr(req.Note),
		Status:  StatusPending,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		if dberr.IsUniqueViolation(err, uniquePendingConstraint) {
			return LinkingResponse{}, linkingerrors.ErrPendingRequestExists
		}
		l.Error("create linking request failed", zap.Error(err))
		return LinkingResponse{}, err
	}
	lr.Cadet = c

	s.invalidateAdminDashboard(ctx)
	l.Info("linking request created",
		zap.String("linking_request_id", lr.ID.String()),
		zap.String("user_id", actor.UserID),
		zap.String("cadet_id", c.ID.String()),
	)
	return mapToResponse(*lr), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]LinkingResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected, StatusCancelled:
	default:
		return nil, linkingerrors.ErrInvalidStatus
	}

	rows, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetMine(ctx context.Context, actor identity.Actor) ([]LinkingResponse, error) {
	if _, err := uuid.Parse(actor.UserID); err != nil {
		return nil, apperror.ErrUnauthorized
	}
	rows, err := s.repo.FindByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func isAllowedStatusTransition(current, target string) bool {
	if current != StatusPending {
		return false
	}
	switch target {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s *service) Approve(ctx context.Context, actor identity.Actor, id string) (LinkingResponse, error) {
	return s.transition(ctx, actor, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actor identity.Actor, id, reason string) (LinkingResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return LinkingResponse{}, linkingerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, actor, id, StatusRejected, &reason)
}

func (s *service) Cancel(ctx context.Context, actor identity.Actor, id string) (LinkingResponse, error) {
	return s.transition(ctx, actor, id, StatusCancelled, nil)
}

// transition moves a PENDING request to target. Approval links the account
// to the cadet in the same transaction.
func (s *service) transition(ctx context.Context, actor identity.Actor, id, target string, reason *string) (LinkingResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return LinkingResponse{}, linkingerrors.ErrInvalidID
	}
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LinkingResponse{}, apperror.ErrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("linking transition begin tx failed", zap.Error(err))
		return LinkingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return LinkingResponse{}, linkingerrors.ErrRequestNotFound
		}
		return LinkingResponse{}, err
	}

	if target == StatusCancelled && lr.UserID != actorUUID {
		return LinkingResponse{}, linkingerrors.ErrNotRequester
	}
	if !isAllowedStatusTransition(lr.Status, target) {
		l.Warn("linking transition invalid",
			zap.String("linking_request_id", id),
			zap.String("from_status", lr.Status),
			zap.String("to_status", target),
		)
		return LinkingResponse{}, linkingerrors.ErrInvalidStatusTransition
	}

	if target == StatusApproved {
		affected, err := qtx.LinkUser(ctx, lr.UserID.String(), lr.CadetID.String())
		if err != nil {
			if dberr.IsUniqueViolation(err, "uq_users_cadet_id") {
				return LinkingResponse{}, linkingerrors.ErrCadetAlreadyLinked
			}
			return LinkingResponse{}, err
		}
		if affected == 0 {
			return LinkingResponse{}, linkingerrors.ErrAccountNotFound
		}
	}

	now := s.now().UTC()
	lr.Status = target
	lr.RejectionReason = reason
	if target != StatusCancelled {
		lr.ReviewedBy = &actorUUID
		lr.ReviewedAt = &now
	}

	if err := qtx.Update(ctx, lr); err != nil {
		l.Error("linking transition persist failed", zap.String("linking_request_id", id), zap.Error(err))
		return LinkingResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		l.Error("linking transition commit failed", zap.String("linking_request_id", id), zap.Error(err))
		return LinkingResponse{}, err
	}

	s.invalidateAdminDashboard(ctx)
	l.Info("linking transition success",
		zap.String("linking_request_id", id),
		zap.String("status", target),
		zap.String("actor_id", actor.UserID),
	)
	return mapToResponse(*lr), nil
}

func (s *service) invalidateAdminDashboard(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cachekey.DashboardAdmin).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("invalidate admin dashboard failed", zap.Error(err))
	}
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func mapToResponse(lr LinkingRequest) LinkingResponse {
	resp := LinkingResponse{
		ID:              lr.ID.String(),
		UserID:          lr.UserID.String(),
		CadetID:         lr.CadetID.String(),
		Note:            lr.Note,
		Status:          lr.Status,
		RejectionReason: lr.RejectionReason,
	}
	if lr.Cadet != nil {
		resp.CadetName = lr.Cadet.FullName
		resp.ApplicationNumber = lr.Cadet.ApplicationNumber
	}
	if lr.ReviewedBy != nil {
		v := lr.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if lr.ReviewedAt != nil {
		v := lr.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	if !lr.CreatedAt.IsZero() {
		resp.CreatedAt = lr.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(rows []LinkingRequest) []LinkingResponse {
	res := make([]LinkingResponse, len(rows))
	for i, lr := range rows {
		res[i] = mapToResponse(lr)
	}
	return res
}
