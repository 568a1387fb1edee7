package cadet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cadeterrors "platoon-pulse/internal/cadet/errors"
	"platoon-pulse/internal/events"
	"platoon-pulse/internal/messaging/kafka"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/cachekey"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/counter"
	"platoon-pulse/internal/shared/identity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DateLayout = "2006-01-02"

	optionsTTL = time.Hour
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateCadetRequest) (CadetResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]CadetResponse, error)
	GetOptions(ctx context.Context) ([]CadetOption, error)
	GetByID(ctx context.Context, id string) (CadetResponse, error)
	Update(ctx context.Context, id string, req UpdateCadetRequest) (CadetResponse, error)
	Delete(ctx context.Context, id string) error
	AddFamilyContact(ctx context.Context, cadetID string, req FamilyContactRequest) (FamilyContactResponse, error)
	RemoveFamilyContact(ctx context.Context, cadetID, contactID string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("cadet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cadet.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		now:     time.Now,
		logger:  l,
	}
}

// Create commits the profile (and its cadet_created outbox row) first and
// only then inserts family contacts. A failed contact insert is reported to
// the caller but the cadet stays.
func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateCadetRequest) (CadetResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	platoon, err := NormalizePlatoon(req.Platoon)
	if err != nil {
		return CadetResponse{}, err
	}
	dob, err := time.Parse(DateLayout, strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		return CadetResponse{}, cadeterrors.ErrInvalidDate
	}
	now := s.now()
	if err := ValidatePlatoonAge(platoon, dob, now); err != nil {
		l.Warn("create cadet platoon rejected",
			zap.String("platoon", platoon),
			zap.Int("age", AgeOn(dob, now)),
		)
		return CadetResponse{}, err
	}

	joinedAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(req.JoinedAt) != "" {
		joinedAt, err = time.Parse(DateLayout, strings.TrimSpace(req.JoinedAt))
		if err != nil {
			return CadetResponse{}, cadeterrors.ErrInvalidDate
		}
	}

	createdBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return CadetResponse{}, apperror.ErrUnauthorized
	}

	appNo := strings.ToUpper(strings.TrimSpace(req.ApplicationNumber))
	if appNo == "" {
		next, err := s.counter.Next(ctx, counter.ApplicationNumber)
		if err != nil {
			l.Error("create cadet generate application number failed", zap.Error(err))
			return CadetResponse{}, err
		}
		appNo = fmt.Sprintf("APP-%06d", next)
	}

	row := &Cadet{
		ID:                uuid.New(),
		FullName:          strings.TrimSpace(req.FullName),
		ApplicationNumber: appNo,
		Platoon:           platoon,
		DateOfBirth:       dob,
		SchoolGrade:       req.SchoolGrade,
		Phone:             req.Phone,
		Address:           req.Address,
		JoinedAt:          joinedAt,
		CreatedBy:         createdBy,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("create cadet begin tx failed", zap.Error(err))
		return CadetResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		l.Warn("create cadet persist failed", zap.String("application_number", appNo), zap.Error(err))
		return CadetResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.CadetCreatedEvent{
			EventType:         "cadet_created",
			RequestID:         rid,
			CadetID:           row.ID.String(),
			ApplicationNumber: appNo,
			Platoon:           platoon,
			CreatedBy:         actor.UserID,
			OccurredAt:        now.UTC(),
		}
		msg, err := kafka.NewOutboxEvent(rid, "cadet", row.ID.String(), event.EventType, events.CadetCreatedTopic, event)
		if err != nil {
			return CadetResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, msg); err != nil {
			l.Error("create cadet outbox persist failed", zap.String("cadet_id", row.ID.String()), zap.Error(err))
			return CadetResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("create cadet commit failed", zap.Error(err))
		return CadetResponse{}, err
	}

	s.invalidate(ctx, cachekey.CadetOptions, cachekey.DashboardAdmin)

	l.Info("create cadet success",
		zap.String("cadet_id", row.ID.String()),
		zap.String("application_number", appNo),
	)

	if len(req.FamilyContacts) > 0 {
		contacts := make([]FamilyContact, len(req.FamilyContacts))
		for i, fc := range req.FamilyContacts {
			contacts[i] = newFamilyContact(row.ID, fc)
		}
		if err := s.repo.CreateFamilyContacts(ctx, contacts); err != nil {
			l.Error("create cadet family contacts failed, cadet kept",
				zap.String("cadet_id", row.ID.String()),
				zap.Error(err),
			)
			return CadetResponse{}, err
		}
		row.FamilyContacts = contacts
	}

	return mapToResponse(*row, now), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]CadetResponse, error) {
	if filter.Platoon != "" {
		p, err := NormalizePlatoon(filter.Platoon)
		if err != nil {
			return nil, err
		}
		filter.Platoon = p
	}
	filter.Search = strings.TrimSpace(filter.Search)

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	now := s.now()
	res := make([]CadetResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r, now)
	}
	return res, nil
}

// GetOptions serves the id/name list used by pickers. It is cached in redis
// and concurrent misses share one query.
func (s *service) GetOptions(ctx context.Context) ([]CadetOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cachekey.CadetOptions).Result(); err == nil {
			var resp []CadetOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cachekey.CadetOptions, func() (interface{}, error) {
		rows, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]CadetOption, len(rows))
		for i, r := range rows {
			resp[i] = CadetOption{
				ID:                r.ID.String(),
				FullName:          r.FullName,
				ApplicationNumber: r.ApplicationNumber,
				Platoon:           r.Platoon,
			}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cachekey.CadetOptions, string(data), optionsTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]CadetOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CadetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CadetResponse{}, cadeterrors.ErrInvalidCadetID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CadetResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row, s.now()), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCadetRequest) (CadetResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return CadetResponse{}, cadeterrors.ErrInvalidCadetID
	}
	platoon, err := NormalizePlatoon(req.Platoon)
	if err != nil {
		return CadetResponse{}, err
	}
	dob, err := time.Parse(DateLayout, strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		return CadetResponse{}, cadeterrors.ErrInvalidDate
	}
	now := s.now()
	if err := ValidatePlatoonAge(platoon, dob, now); err != nil {
		return CadetResponse{}, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CadetResponse{}, mapRepositoryError(err)
	}

	row.FullName = strings.TrimSpace(req.FullName)
	row.Platoon = platoon
	row.DateOfBirth = dob
	row.SchoolGrade = req.SchoolGrade
	row.Phone = req.Phone
	row.Address = req.Address

	if err := s.repo.Update(ctx, row); err != nil {
		l.Error("update cadet persist failed", zap.String("cadet_id", id), zap.Error(err))
		return CadetResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, cachekey.CadetOptions, cachekey.DashboardAdmin, cachekey.DashboardCadet(id))
	l.Info("update cadet success", zap.String("cadet_id", id))

	return mapToResponse(*row, now), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return cadeterrors.ErrInvalidCadetID
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return cadeterrors.ErrCadetNotFound
	}

	s.invalidate(ctx, cachekey.CadetOptions, cachekey.DashboardAdmin, cachekey.DashboardCadet(id))
	contextutil.GetLogger(ctx, s.logger).Info("delete cadet success", zap.String("cadet_id", id))
	return nil
}

func (s *service) AddFamilyContact(ctx context.Context, cadetID string, req FamilyContactRequest) (FamilyContactResponse, error) {
	id, err := uuid.Parse(cadetID)
	if err != nil {
		return FamilyContactResponse{}, cadeterrors.ErrInvalidCadetID
	}
	if _, err := s.repo.FindByID(ctx, cadetID); err != nil {
		return FamilyContactResponse{}, mapRepositoryError(err)
	}

	fc := newFamilyContact(id, req)
	if err := s.repo.CreateFamilyContacts(ctx, []FamilyContact{fc}); err != nil {
		return FamilyContactResponse{}, err
	}
	return mapContact(fc), nil
}

func (s *service) RemoveFamilyContact(ctx context.Context, cadetID, contactID string) error {
	if _, err := uuid.Parse(cadetID); err != nil {
		return cadeterrors.ErrInvalidCadetID
	}
	if _, err := uuid.Parse(contactID); err != nil {
		return cadeterrors.ErrFamilyContactNotFound
	}

	affected, err := s.repo.DeleteFamilyContact(ctx, cadetID, contactID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return cadeterrors.ErrFamilyContactNotFound
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate cadet caches", zap.Strings("keys", keys), zap.Error(err))
	}
}

func newFamilyContact(cadetID uuid.UUID, req FamilyContactRequest) FamilyContact {
	return FamilyContact{
		ID:           uuid.New(),
		CadetID:      cadetID,
		Name:         strings.TrimSpace(req.Name),
		Relationship: strings.TrimSpace(req.Relationship),
		Phone:        strings.TrimSpace(req.Phone),
		IsPrimary:    req.IsPrimary,
	}
}

func mapContact(fc FamilyContact) FamilyContactResponse {
	return FamilyContactResponse{
		ID:           fc.ID.String(),
		Name:         fc.Name,
		Relationship: fc.Relationship,
		Phone:        fc.Phone,
		IsPrimary:    fc.IsPrimary,
	}
}

func mapToResponse(c Cadet, now time.Time) CadetResponse {
	resp := CadetResponse{
		ID:                c.ID.String(),
		FullName:          c.FullName,
		ApplicationNumber: c.ApplicationNumber,
		Platoon:           c.Platoon,
		DateOfBirth:       c.DateOfBirth.Format(DateLayout),
		Age:               AgeOn(c.DateOfBirth, now),
		SchoolGrade:       c.SchoolGrade,
		Phone:             c.Phone,
		Address:           c.Address,
		JoinedAt:          c.JoinedAt.Format(DateLayout),
	}
	for _, fc := range c.FamilyContacts {
		resp.FamilyContacts = append(resp.FamilyContacts, mapContact(fc))
	}
	return resp
}
