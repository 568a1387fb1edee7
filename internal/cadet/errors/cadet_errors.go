package cadeterrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cadet not found",
		http.StatusNotFound,
	)
	ErrDuplicateApplicationNumber = apperror.New(
		apperror.CodeInvalidInput,
		"Application number is already registered",
		http.StatusBadRequest,
	)
	ErrInvalidCadetID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid cadet ID",
		http.StatusBadRequest,
	)
	ErrInvalidPlatoon = apperror.New(
		apperror.CodeInvalidInput,
		"Platoon must be JUNIOR or SENIOR",
		http.StatusBadRequest,
	)
	ErrPlatoonAgeMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Cadet age does not fit the chosen platoon (JUNIOR 12-14, SENIOR 14-20)",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrFamilyContactNotFound = apperror.New(
		apperror.CodeNotFound,
		"Family contact not found",
		http.StatusNotFound,
	)
)
