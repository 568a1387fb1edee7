package medical

import (
	"context"
	"strings"
	"time"

	medicalerrors "platoon-pulse/internal/medical/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/contextutil"
	"platoon-pulse/internal/shared/dberr"
	"platoon-pulse/internal/shared/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=medical_service.go -destination=mock/medical_service_mock.go -package=mock
type Service interface {
	GetByCadet(ctx context.Context, cadetID string) (MedicalResponse, error)
	GetMine(ctx context.Context, actor identity.Actor) (MedicalResponse, error)
	Upsert(ctx context.Context, actor identity.Actor, cadetID string, req UpsertMedicalRequest) (MedicalResponse, error)
	InitializeForCadet(ctx context.Context, cadetID string) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("medical.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("medical.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByCadet(ctx context.Context, cadetID string) (MedicalResponse, error) {
	if _, err := uuid.Parse(cadetID); err != nil {
		return MedicalResponse{}, medicalerrors.ErrInvalidCadetID
	}

	rec, err := s.repo.FindByCadet(ctx, cadetID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return MedicalResponse{}, medicalerrors.ErrMedicalRecordNotFound
		}
		return MedicalResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) GetMine(ctx context.Context, actor identity.Actor) (MedicalResponse, error) {
	if !actor.IsLinked() {
		return MedicalResponse{}, apperror.ErrForbidden
	}
	return s.GetByCadet(ctx, actor.CadetID)
}

// Upsert replaces every field of the cadet's record, creating it when the
// cadet has none yet.
func (s *service) Upsert(ctx context.Context, actor identity.Actor, cadetID string, req UpsertMedicalRequest) (MedicalResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	cid, err := uuid.Parse(cadetID)
	if err != nil {
		return MedicalResponse{}, medicalerrors.ErrInvalidCadetID
	}
	updatedBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return MedicalResponse{}, apperror.ErrUnauthorized
	}

	rec := &MedicalRecord{
		ID:             uuid.New(),
		CadetID:        cid,
		BloodType:      trimPtr(req.BloodType),
		Allergies:      trimPtr(req.Allergies),
		Conditions:     trimPtr(req.Conditions),
		Medications:    trimPtr(req.Medications),
		EmergencyNotes: trimPtr(req.EmergencyNotes),
		UpdatedBy:      &updatedBy,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return MedicalResponse{}, medicalerrors.ErrCadetNotFound
		}
		l.Error("upsert medical record failed", zap.String("cadet_id", cadetID), zap.Error(err))
		return MedicalResponse{}, err
	}

	l.Info("medical record saved", zap.String("cadet_id", cadetID), zap.String("updated_by", actor.UserID))
	return mapToResponse(*rec), nil
}

// InitializeForCadet opens an empty record. It reports false when the cadet
// already has one, so redelivered events are harmless.
func (s *service) InitializeForCadet(ctx context.Context, cadetID string) (bool, error) {
	cid, err := uuid.Parse(cadetID)
	if err != nil {
		return false, medicalerrors.ErrInvalidCadetID
	}

	if err := s.repo.Create(ctx, &MedicalRecord{ID: uuid.New(), CadetID: cid}); err != nil {
		if dberr.IsUniqueViolation(err, uniqueCadetConstraint) {
			return false, nil
		}
		if dberr.IsForeignKeyViolation(err) {
			return false, medicalerrors.ErrCadetNotFound
		}
		return false, err
	}
	return true, nil
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

func mapToResponse(rec MedicalRecord) MedicalResponse {
	resp := MedicalResponse{
		ID:             rec.ID.String(),
		CadetID:        rec.CadetID.String(),
		BloodType:      rec.BloodType,
		Allergies:      rec.Allergies,
		Conditions:     rec.Conditions,
		Medications:    rec.Medications,
		EmergencyNotes: rec.EmergencyNotes,
	}
	if rec.UpdatedBy != nil {
		v := rec.UpdatedBy.String()
		resp.UpdatedBy = &v
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
