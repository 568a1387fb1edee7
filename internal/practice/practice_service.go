package practice

import (
	"context"
	"strings"
	"time"

	practiceerrors "platoon-pulse/internal/practice/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/shared/timeofday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateSessionRequest) (SessionResponse, error)
	GetAll(ctx context.Context) ([]SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("practice.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("practice.service")
	}
	return &service{repo: repo, logger: l}
}

// DurationMinutes is end minus start in minutes. A session must have a
// positive duration, so start >= end is rejected.
func DurationMinutes(start, end datatypes.Time) (int, error) {
	d := timeofday.Minutes(end) - timeofday.Minutes(start)
	if d <= 0 {
		return 0, practiceerrors.ErrInvalidTimeRange
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateSessionRequest) (SessionResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	date, err := time.Parse(DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return SessionResponse{}, practiceerrors.ErrInvalidDate
	}
	start, err := timeofday.Parse(req.StartTime)
	if err != nil {
		return SessionResponse{}, practiceerrors.ErrInvalidTime
	}
	end, err := timeofday.Parse(req.EndTime)
	if err != nil {
		return SessionResponse{}, practiceerrors.ErrInvalidTime
	}
	duration, err := DurationMinutes(start, end)
	if err != nil {
		return SessionResponse{}, err
	}

	createdBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return SessionResponse{}, apperror.ErrUnauthorized
	}

	row := &Session{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
		CreatedBy:       createdBy,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		l.Error("create practice session failed", zap.Error(err))
		return SessionResponse{}, err
	}

	l.Info("practice session created",
		zap.String("session_id", row.ID.String()),
		zap.String("date", req.Date),
		zap.Int("duration_minutes", duration),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]SessionResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SessionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SessionResponse{}, practiceerrors.ErrInvalidSessionID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return SessionResponse{}, practiceerrors.ErrSessionNotFound
		}
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return practiceerrors.ErrInvalidSessionID
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return practiceerrors.ErrSessionNotFound
	}

	contextutil.GetLogger(ctx, s.logger).Info("practice session deleted", zap.String("session_id", id))
	return nil
}

func mapToResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID.String(),
		Title:           s.Title,
		Description:     s.Description,
		Date:            s.Date.Format(DateLayout),
		StartTime:       timeofday.Format(s.StartTime),
		EndTime:         timeofday.Format(s.EndTime),
		DurationMinutes: s.DurationMinutes,
		CreatedBy:       s.CreatedBy.String(),
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}
