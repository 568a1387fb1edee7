package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"platoon-pulse/internal/attendance"
	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/cadetrecord"
	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/cachekey"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 5 * time.Minute

type CadetReader interface {
	FindByID(ctx context.Context, id string) (*cadet.Cadet, error)
	CountByPlatoon(ctx context.Context) ([]cadet.PlatoonCount, error)
}

type SessionReader interface {
	Count(ctx context.Context) (int64, error)
	FindLatest(ctx context.Context) (*practice.Session, error)
}

type AttendanceReader interface {
	ListBySession(ctx context.Context, sessionID string) ([]attendance.Record, error)
	ListByCadet(ctx context.Context, cadetID string) ([]attendance.Record, error)
}

type PendingCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type RecordCounter interface {
	CountByKind(ctx context.Context, cadetID string) ([]cadetrecord.KindCount, error)
}

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, actor identity.Actor) (Response, error)
	GetAdmin(ctx context.Context) (AdminDashboard, error)
	GetCadet(ctx context.Context, cadetID string) (CadetDashboard, error)
	InvalidateForCadet(ctx context.Context, cadetID string) error
}

type service struct {
	cadets     CadetReader
	sessions   SessionReader
	attendance AttendanceReader
	linking    PendingCounter
	records    RecordCounter
	rdb        *redis.Client
	ttl        time.Duration
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	cadets CadetReader,
	sessions SessionReader,
	attendanceRepo AttendanceReader,
	linking PendingCounter,
	records RecordCounter,
	rdb *redis.Client,
	ttl time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		cadets:     cadets,
		sessions:   sessions,
		attendance: attendanceRepo,
		linking:    linking,
		records:    records,
		rdb:        rdb,
		ttl:        ttl,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) Get(ctx context.Context, actor identity.Actor) (Response, error) {
	switch actor.Role {
	case identity.RoleAdmin:
		d, err := s.GetAdmin(ctx)
		if err != nil {
			return Response{}, err
		}
		return Response{Role: actor.Role, Admin: &d}, nil
	case identity.RoleCadet:
		if !actor.IsLinked() {
			return Response{Role: actor.Role, Cadet: &CadetDashboard{Records: map[string]int64{}}}, nil
		}
		d, err := s.GetCadet(ctx, actor.CadetID)
		if err != nil {
			return Response{}, err
		}
		return Response{Role: actor.Role, Cadet: &d}, nil
	}
	return Response{}, apperror.ErrForbidden
}

func (s *service) GetAdmin(ctx context.Context) (AdminDashboard, error) {
	var out AdminDashboard
	err := s.cached(ctx, cachekey.DashboardAdmin, &out, func() (any, error) {
		return s.buildAdmin(ctx)
	})
	return out, err
}

func (s *service) GetCadet(ctx context.Context, cadetID string) (CadetDashboard, error) {
	if _, err := uuid.Parse(cadetID); err != nil {
		return CadetDashboard{}, apperror.ErrInvalidInput
	}
	var out CadetDashboard
	err := s.cached(ctx, cachekey.DashboardCadet(cadetID), &out, func() (any, error) {
		return s.buildCadet(ctx, cadetID)
	})
	return out, err
}

// cached reads key into dst, or fills it through singleflight and stores the
// result for s.ttl. Cache errors only degrade to a rebuild.
func (s *service) cached(ctx context.Context, key string, dst any, build func() (any, error)) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			if json.Unmarshal(raw, dst) == nil {
				return nil
			}
		} else if err != redis.Nil {
			l.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		built, err := build()
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(built)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if err := s.rdb.Set(ctx, key, string(raw), s.ttl).Err(); err != nil {
				l.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return raw, nil
	})
	if err != nil {
		l.Error("build dashboard failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}

func (s *service) buildAdmin(ctx context.Context) (AdminDashboard, error) {
	counts, err := s.cadets.CountByPlatoon(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	out := AdminDashboard{Platoons: make([]PlatoonCount, 0, len(counts))}
	for _, c := range counts {
		out.Platoons = append(out.Platoons, PlatoonCount{Platoon: c.Platoon, Total: c.Total})
		out.TotalCadets += c.Total
	}

	if out.TotalSessions, err = s.sessions.Count(ctx); err != nil {
		return AdminDashboard{}, err
	}

	latest, err := s.sessions.FindLatest(ctx)
	switch {
	case err == nil:
		rows, err := s.attendance.ListBySession(ctx, latest.ID.String())
		if err != nil {
			return AdminDashboard{}, err
		}
		sum := attendance.Summarize(rows)
		out.LatestSession = &SessionSummary{
			SessionID:  latest.ID.String(),
			Title:      latest.Title,
			Date:       latest.Date.Format(practice.DateLayout),
			Present:    sum.Present,
			LeaveEarly: sum.LeaveEarly,
			Absent:     sum.Absent,
		}
	case !dberr.IsNotFound(err):
		return AdminDashboard{}, err
	}

	if out.PendingLinkings, err = s.linking.CountPending(ctx); err != nil {
		return AdminDashboard{}, err
	}
	return out, nil
}

func (s *service) buildCadet(ctx context.Context, cadetID string) (CadetDashboard, error) {
	c, err := s.cadets.FindByID(ctx, cadetID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return CadetDashboard{}, apperror.ErrNotFound
		}
		return CadetDashboard{}, err
	}

	rows, err := s.attendance.ListByCadet(ctx, cadetID)
	if err != nil {
		return CadetDashboard{}, err
	}
	sum := attendance.Summarize(rows)

	kinds, err := s.records.CountByKind(ctx, cadetID)
	if err != nil {
		return CadetDashboard{}, err
	}
	records := map[string]int64{
		cadetrecord.KindAchievement:  0,
		cadetrecord.KindDisciplinary: 0,
		cadetrecord.KindTraining:     0,
	}
	for _, k := range kinds {
		records[k.Kind] = k.Total
	}

	return CadetDashboard{
		Linked: true,
		Profile: &CadetProfile{
			ID:                c.ID.String(),
			FullName:          c.FullName,
			ApplicationNumber: c.ApplicationNumber,
			Platoon:           c.Platoon,
		},
		Attendance: AttendanceSummary{
			Present:           sum.Present,
			LeaveEarly:        sum.LeaveEarly,
			Absent:            sum.Absent,
			Total:             sum.Total,
			AveragePercentage: sum.AveragePercentage,
		},
		Records: records,
	}, nil
}

// InvalidateForCadet drops the cadet's dashboard and the admin dashboard,
// whose latest-session summary may include the cadet.
func (s *service) InvalidateForCadet(ctx context.Context, cadetID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, cachekey.DashboardCadet(cadetID), cachekey.DashboardAdmin).Err()
}
