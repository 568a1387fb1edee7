package user

import (
	"platoon-pulse/internal/shared/dberr"
	usererrors "platoon-pulse/internal/user/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if dberr.IsNotFound(err) {
		return usererrors.ErrUserNotFound
	}
	if dberr.IsUniqueViolation(err, "uq_users_email") {
		return usererrors.ErrUserAlreadyExists
	}
	return err
}
