package cadet

import (
	cadeterrors "platoon-pulse/internal/cadet/errors"
	"platoon-pulse/internal/shared/dberr"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if dberr.IsNotFound(err) {
		return cadeterrors.ErrCadetNotFound
	}
	if dberr.IsUniqueViolation(err, "uq_cadets_application_number") {
		return cadeterrors.ErrDuplicateApplicationNumber
	}
	return err
}
