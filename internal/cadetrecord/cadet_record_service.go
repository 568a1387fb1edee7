package cadetrecord

import (
	"context"
	"strings"
	"time"

	cadetrecorderrors "platoon-pulse/internal/cadetrecord/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/cachekey"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DateLayout = "2006-01-02"

//go:generate mockgen -source=cadet_record_service.go -destination=mock/cadet_record_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Actor, cadetID string, req RecordRequest) (RecordResponse, error)
	ListByCadet(ctx context.Context, cadetID, kind string) ([]RecordResponse, error)
	ListMine(ctx context.Context, actor identity.Actor, kind string) ([]RecordResponse, error)
	GetByID(ctx context.Context, id string) (RecordResponse, error)
	Update(ctx context.Context, actor identity.Actor, id string, req RecordRequest) (RecordResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("cadetrecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cadetrecord.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, cadetID string, req RecordRequest) (RecordResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	cid, err := uuid.Parse(cadetID)
	if err != nil {
		return RecordResponse{}, cadetrecorderrors.ErrInvalidID
	}
	recordedBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return RecordResponse{}, apperror.ErrUnauthorized
	}

	rec := &CadetRecord{ID: uuid.New(), CadetID: cid, RecordedBy: recordedBy}
	if err := apply(rec, req); err != nil {
		return RecordResponse{}, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return RecordResponse{}, cadetrecorderrors.ErrCadetNotFound
		}
		l.Error("create cadet record failed", zap.String("cadet_id", cadetID), zap.Error(err))
		return RecordResponse{}, err
	}

	s.invalidate(ctx, cadetID)
	l.Info("cadet record created",
		zap.String("record_id", rec.ID.String()),
		zap.String("cadet_id", cadetID),
		zap.String("kind", rec.Kind),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ListByCadet(ctx context.Context, cadetID, kind string) ([]RecordResponse, error) {
	if _, err := uuid.Parse(cadetID); err != nil {
		return nil, cadetrecorderrors.ErrInvalidID
	}

	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind != "" && !validKind(kind) {
		return nil, cadetrecorderrors.ErrInvalidKind
	}

	rows, err := s.repo.FindByCadet(ctx, cadetID, kind)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListMine(ctx context.Context, actor identity.Actor, kind string) ([]RecordResponse, error) {
	if !actor.IsLinked() {
		return nil, apperror.ErrForbidden
	}
	return s.ListByCadet(ctx, actor.CadetID, kind)
}

func (s *service) GetByID(ctx context.Context, id string) (RecordResponse, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return RecordResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id string, req RecordRequest) (RecordResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	rec, err := s.find(ctx, id)
	if err != nil {
		return RecordResponse{}, err
	}
	recordedBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return RecordResponse{}, apperror.ErrUnauthorized
	}

	if err := apply(rec, req); err != nil {
		return RecordResponse{}, err
	}
	rec.RecordedBy = recordedBy

	if err := s.repo.Update(ctx, rec); err != nil {
		l.Error("update cadet record failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, err
	}

	s.invalidate(ctx, rec.CadetID.String())
	return mapToResponse(*rec), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return cadetrecorderrors.ErrRecordNotFound
	}

	s.invalidate(ctx, rec.CadetID.String())
	return nil
}

func (s *service) find(ctx context.Context, id string) (*CadetRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, cadetrecorderrors.ErrInvalidID
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, cadetrecorderrors.ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// invalidate drops the cadet dashboard, which shows record counts. A failed
// delete only costs a stale dashboard until the TTL expires.
func (s *service) invalidate(ctx context.Context, cadetID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cachekey.DashboardCadet(cadetID)).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("invalidate cadet dashboard failed",
			zap.String("cadet_id", cadetID),
			zap.Error(err),
		)
	}
}

func validKind(kind string) bool {
	switch kind {
	case KindAchievement, KindDisciplinary, KindTraining:
		return true
	}
	return false
}

// apply validates req and copies it onto rec. Fields that do not belong to
// the record's kind are cleared.
func apply(rec *CadetRecord, req RecordRequest) error {
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	if !validKind(kind) {
		return cadetrecorderrors.ErrInvalidKind
	}

	occurredOn, err := time.Parse(DateLayout, strings.TrimSpace(req.OccurredOn))
	if err != nil {
		return cadetrecorderrors.ErrInvalidDate
	}

	rec.Kind = kind
	rec.Title = strings.TrimSpace(req.Title)
	rec.Description = trimPtr(req.Description)
	rec.OccurredOn = occurredOn
	rec.AwardLevel, rec.Severity, rec.ActionTaken, rec.Hours, rec.Instructor = nil, nil, nil, nil, nil

	switch kind {
	case KindAchievement:
		rec.AwardLevel = trimPtr(req.AwardLevel)
	case KindDisciplinary:
		severity := trimPtr(req.Severity)
		if severity == nil {
			return cadetrecorderrors.ErrSeverityRequired
		}
		v := strings.ToUpper(*severity)
		if v != SeverityLow && v != SeverityMedium && v != SeverityHigh {
			return cadetrecorderrors.ErrInvalidSeverity
		}
		rec.Severity = &v
		rec.ActionTaken = trimPtr(req.ActionTaken)
	case KindTraining:
		if req.Hours != nil {
			if *req.Hours <= 0 {
				return cadetrecorderrors.ErrInvalidHours
			}
			h := *req.Hours
			rec.Hours = &h
		}
		rec.Instructor = trimPtr(req.Instructor)
	}
	return nil
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

func mapToResponse(rec CadetRecord) RecordResponse {
	resp := RecordResponse{
		ID:          rec.ID.String(),
		CadetID:     rec.CadetID.String(),
		Kind:        rec.Kind,
		Title:       rec.Title,
		Description: rec.Description,
		OccurredOn:  rec.OccurredOn.Format(DateLayout),
		AwardLevel:  rec.AwardLevel,
		Severity:    rec.Severity,
		ActionTaken: rec.ActionTaken,
		Hours:       rec.Hours,
		Instructor:  rec.Instructor,
		RecordedBy:  rec.RecordedBy.String(),
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(rows []CadetRecord) []RecordResponse {
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
