package attendance

import (
	"context"
	"database/sql"

	"platoon-pulse/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Reserve(ctx context.Context, r *Record) error
	Upsert(ctx context.Context, r *Record) error
	FindBySessionAndCadet(ctx context.Context, sessionID, cadetID string) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	ListBySession(ctx context.Context, sessionID string) ([]Record, error)
	ListByCadet(ctx context.Context, cadetID string) ([]Record, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	// set on transaction-bound repositories: single-row reads take a row lock
	forUpdate bool
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to tx. FindBySessionAndCadet then locks the
// row until tx ends, so a read-modify-write of one record is serialized.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GormTx(r.db, tx), forUpdate: tx != nil}
}

// Reserve inserts an empty absent row for (session_id, cadet_id) unless one
// exists. Called before the locked read so that two first marks for the
// same cadet queue on the same row instead of both inserting.
func (r *repository) Reserve(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO attendance_records (id, session_id, cadet_id, attendance_status, marked_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT (session_id, cadet_id) DO NOTHING`,
		rec.ID, rec.SessionID, rec.CadetID, string(StatusAbsent), rec.MarkedBy,
	).Error
}

// Upsert writes the row keyed by (session_id, cadet_id). Concurrent writers
// on the same key resolve as last write wins. The stored id is read back
// into rec.
func (r *repository) Upsert(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).
		Omit("Session", "Cadet").
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "session_id"}, {Name: "cadet_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"entry_time",
					"exit_time",
					"participation_minutes",
					"attendance_percentage",
					"attendance_status",
					"marked_by",
					"updated_at",
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
		).
		Create(rec).Error
}

func (r *repository) FindBySessionAndCadet(ctx context.Context, sessionID, cadetID string) (*Record, error) {
	var rec Record
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("session_id = ? AND cadet_id = ?", sessionID, cadetID).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

// ListBySession joins the cadet so reports can print name, application
// number and platoon.
func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Joins("Cadet").
		Where("attendance_records.session_id = ?", sessionID).
		Order(`"Cadet"."full_name" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByCadet(ctx context.Context, cadetID string) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Joins("Session").
		Where("attendance_records.cadet_id = ?", cadetID).
		Order(`"Session"."date" DESC, "Session"."start_time" DESC`).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Record{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
