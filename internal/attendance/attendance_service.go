package attendance

import (
	"context"
	"database/sql"
	"math"
	"time"

	attendanceerrors "platoon-pulse/internal/attendance/errors"
	"platoon-pulse/internal/events"
	"platoon-pulse/internal/messaging/kafka"
	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/shared/timeofday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SessionFinder is satisfied by practice.Repository.
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*practice.Session, error)
}

type Service interface {
	UpsertEntryOrExit(ctx context.Context, sessionID, cadetID, actorID string, kind MarkKind, value datatypes.Time) (RecordResponse, error)
	MarkEntry(ctx context.Context, actor identity.Actor, sessionID string) (RecordResponse, error)
	MarkExit(ctx context.Context, actor identity.Actor, sessionID string) (RecordResponse, error)
	ManualMark(ctx context.Context, actor identity.Actor, sessionID string, req ManualMarkRequest) (RecordResponse, error)
	GetMyHistory(ctx context.Context, actor identity.Actor) (HistoryResponse, error)
	GetCadetHistory(ctx context.Context, cadetID string) (HistoryResponse, error)
	ListBySession(ctx context.Context, sessionID string) ([]RecordResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id string) error
	BuildSessionReport(ctx context.Context, sessionID string) (Report, error)
}

type Options struct {
	// Location is the zone wall-clock marks are read in. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
	Metrics  *Metrics
}

type service struct {
	db       *sql.DB
	repo     Repository
	sessions SessionFinder
	outbox   kafka.OutboxRepository
	metrics  *Metrics
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	sessions SessionFinder,
	outboxRepo kafka.OutboxRepository,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:       db,
		repo:     repo,
		sessions: sessions,
		outbox:   outboxRepo,
		metrics:  opts.Metrics,
		loc:      opts.Location,
		now:      opts.Now,
		logger:   l,
	}
}

func (s *service) UpsertEntryOrExit(
	ctx context.Context,
	sessionID, cadetID, actorID string,
	kind MarkKind,
	value datatypes.Time,
) (RecordResponse, error) {
	var mark string
	switch kind {
	case KindEntry:
		mark = events.AttendanceMarkEntry
	case KindExit:
		mark = events.AttendanceMarkExit
	default:
		return RecordResponse{}, attendanceerrors.ErrInvalidMarkKind
	}

	return s.write(ctx, sessionID, cadetID, actorID, mark, func(r *Record) {
		v := value
		if kind == KindEntry {
			r.EntryTime = &v
		} else {
			r.ExitTime = &v
		}
	})
}

func (s *service) MarkEntry(ctx context.Context, actor identity.Actor, sessionID string) (RecordResponse, error) {
	return s.markNow(ctx, actor, sessionID, KindEntry)
}

func (s *service) MarkExit(ctx context.Context, actor identity.Actor, sessionID string) (RecordResponse, error) {
	return s.markNow(ctx, actor, sessionID, KindExit)
}

// markNow records the caller's own entry or exit at the current wall-clock
// minute.
func (s *service) markNow(ctx context.Context, actor identity.Actor, sessionID string, kind MarkKind) (RecordResponse, error) {
	if !actor.IsLinked() {
		return RecordResponse{}, attendanceerrors.ErrNotOwnRecord
	}
	value := timeofday.FromClock(s.now().In(s.loc))
	return s.UpsertEntryOrExit(ctx, sessionID, actor.CadetID, actor.UserID, kind, value)
}

// ManualMark overwrites both times. It rejects entry >= exit before any
// write. Admins name the cadet, cadets may only mark themselves.
func (s *service) ManualMark(ctx context.Context, actor identity.Actor, sessionID string, req ManualMarkRequest) (RecordResponse, error) {
	entry, err := timeofday.Parse(req.EntryTime)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidTime
	}
	exit, err := timeofday.Parse(req.ExitTime)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidTime
	}
	if timeofday.Minutes(entry) >= timeofday.Minutes(exit) {
		return RecordResponse{}, attendanceerrors.ErrInvalidTimeRange
	}

	cadetID, err := resolveTarget(actor, req.CadetID)
	if err != nil {
		return RecordResponse{}, err
	}

	return s.write(ctx, sessionID, cadetID, actor.UserID, events.AttendanceMarkManual, func(r *Record) {
		r.EntryTime = &entry
		r.ExitTime = &exit
	})
}

func resolveTarget(actor identity.Actor, requested string) (string, error) {
	if actor.IsAdmin() {
		if requested != "" {
			return requested, nil
		}
		if actor.IsLinked() {
			return actor.CadetID, nil
		}
		return "", attendanceerrors.ErrCadetRequired
	}

	if !actor.IsLinked() || (requested != "" && requested != actor.CadetID) {
		return "", attendanceerrors.ErrNotOwnRecord
	}
	return actor.CadetID, nil
}

// write reserves and locks the (session, cadet) row, applies the change,
// recomputes the derived fields and upserts it together with its
// attendance_marked outbox row. Concurrent writes to one row run one after
// the other, each seeing the previous commit.
func (s *service) write(
	ctx context.Context,
	sessionID, cadetID, actorID, mark string,
	apply func(r *Record),
) (RecordResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidID
	}
	cid, err := uuid.Parse(cadetID)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidID
	}
	markedBy, err := uuid.Parse(actorID)
	if err != nil {
		return RecordResponse{}, apperror.ErrUnauthorized
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return RecordResponse{}, attendanceerrors.ErrSessionNotFound
		}
		return RecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("attendance begin tx failed", zap.Error(err))
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	reserved := &Record{ID: uuid.New(), SessionID: sid, CadetID: cid, MarkedBy: markedBy}
	if err := qtx.Reserve(ctx, reserved); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return RecordResponse{}, attendanceerrors.ErrCadetNotFound
		}
		l.Error("attendance reserve failed", zap.String("session_id", sessionID), zap.String("cadet_id", cadetID), zap.Error(err))
		return RecordResponse{}, err
	}

	rec, err := qtx.FindBySessionAndCadet(ctx, sessionID, cadetID)
	if err != nil {
		return RecordResponse{}, err
	}

	apply(rec)
	rec.MarkedBy = markedBy
	Recompute(rec, session.DurationMinutes)

	if err := qtx.Upsert(ctx, rec); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return RecordResponse{}, attendanceerrors.ErrCadetNotFound
		}
		l.Error("attendance upsert failed",
			zap.String("session_id", sessionID),
			zap.String("cadet_id", cadetID),
			zap.Error(err),
		)
		return RecordResponse{}, err
	}

	if err := s.queueEvent(ctx, tx, rec, actorID, mark); err != nil {
		l.Error("attendance outbox persist failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
		return RecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error("attendance commit failed", zap.Error(err))
		return RecordResponse{}, err
	}

	s.metrics.observe(mark, rec.AttendanceStatus)
	l.Info("attendance marked",
		zap.String("session_id", sessionID),
		zap.String("cadet_id", cadetID),
		zap.String("mark", mark),
		zap.Int("participation_minutes", rec.ParticipationMinutes),
		zap.Float64("attendance_percentage", rec.AttendancePercentage),
		zap.String("attendance_status", rec.AttendanceStatus),
	)

	return mapRecord(*rec), nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, rec *Record, actorID, mark string) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event := events.AttendanceMarkedEvent{
		EventType:            "attendance_marked",
		RequestID:            rid,
		RecordID:             rec.ID.String(),
		SessionID:            rec.SessionID.String(),
		CadetID:              rec.CadetID.String(),
		MarkedBy:             actorID,
		Mark:                 mark,
		AttendanceStatus:     rec.AttendanceStatus,
		AttendancePercentage: rec.AttendancePercentage,
		OccurredAt:           s.now().UTC(),
	}
	msg, err := kafka.NewOutboxEvent(rid, "attendance_record", rec.ID.String(), event.EventType, events.AttendanceMarkedTopic, event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, msg)
}

func (s *service) GetMyHistory(ctx context.Context, actor identity.Actor) (HistoryResponse, error) {
	if !actor.IsLinked() {
		return HistoryResponse{}, attendanceerrors.ErrNotOwnRecord
	}
	return s.GetCadetHistory(ctx, actor.CadetID)
}

func (s *service) GetCadetHistory(ctx context.Context, cadetID string) (HistoryResponse, error) {
	if _, err := uuid.Parse(cadetID); err != nil {
		return HistoryResponse{}, attendanceerrors.ErrInvalidID
	}

	rows, err := s.repo.ListByCadet(ctx, cadetID)
	if err != nil {
		return HistoryResponse{}, err
	}

	res := HistoryResponse{Records: make([]RecordResponse, len(rows))}
	for i, r := range rows {
		res.Records[i] = mapRecord(r)
	}
	res.Summary = Summarize(rows)
	return res, nil
}

// Summarize counts records per stored status and averages the stored
// percentage.
func Summarize(rows []Record) HistorySummary {
	var sum HistorySummary
	var total float64
	for _, r := range rows {
		switch Status(r.AttendanceStatus) {
		case StatusPresent:
			sum.Present++
		case StatusLeaveEarly:
			sum.LeaveEarly++
		default:
			sum.Absent++
		}
		total += r.AttendancePercentage
	}
	sum.Total = len(rows)
	if sum.Total > 0 {
		sum.AveragePercentage = math.Round(total/float64(sum.Total)*100) / 100
	}
	return sum
}

func (s *service) ListBySession(ctx context.Context, sessionID string) ([]RecordResponse, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, attendanceerrors.ErrInvalidID
	}

	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapRecord(r)
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return attendanceerrors.ErrInvalidID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return attendanceerrors.ErrRecordNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	affected, err := s.repo.WithTx(tx).Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return attendanceerrors.ErrRecordNotFound
	}

	if err := s.queueEvent(ctx, tx, rec, actor.UserID, events.AttendanceDeleted); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.observe(events.AttendanceDeleted, rec.AttendanceStatus)
	l.Info("attendance record deleted", zap.String("record_id", id), zap.String("deleted_by", actor.UserID))
	return nil
}

// BuildSessionReport reads the session and its records and buckets them. A
// session without records yields an empty report, not an error.
func (s *service) BuildSessionReport(ctx context.Context, sessionID string) (Report, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return Report{}, attendanceerrors.ErrInvalidID
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return Report{}, attendanceerrors.ErrSessionNotFound
		}
		return Report{}, err
	}

	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}

	return buildReport(*session, rows), nil
}

func mapRecord(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                   r.ID.String(),
		SessionID:            r.SessionID.String(),
		CadetID:              r.CadetID.String(),
		EntryTime:            timeofday.FormatPtr(r.EntryTime),
		ExitTime:             timeofday.FormatPtr(r.ExitTime),
		ParticipationMinutes: r.ParticipationMinutes,
		AttendancePercentage: r.AttendancePercentage,
		AttendanceStatus:     r.AttendanceStatus,
		MarkedBy:             r.MarkedBy.String(),
	}
	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	if r.Cadet != nil {
		resp.Cadet = &CadetInfo{
			ID:                r.Cadet.ID.String(),
			FullName:          r.Cadet.FullName,
			ApplicationNumber: r.Cadet.ApplicationNumber,
			Platoon:           r.Cadet.Platoon,
		}
	}
	if r.Session != nil {
		resp.Session = &SessionInfo{
			ID:              r.Session.ID.String(),
			Title:           r.Session.Title,
			Date:            r.Session.Date.Format(practice.DateLayout),
			StartTime:       timeofday.Format(r.Session.StartTime),
			EndTime:         timeofday.Format(r.Session.EndTime),
			DurationMinutes: r.Session.DurationMinutes,
		}
	}
	return resp
}
