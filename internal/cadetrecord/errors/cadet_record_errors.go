package cadetrecorderrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cadet record not found",
		http.StatusNotFound,
	)
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cadet not found",
		http.StatusNotFound,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid id",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"Kind must be ACHIEVEMENT, DISCIPLINARY or TRAINING",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrSeverityRequired = apperror.New(
		apperror.CodeValidation,
		"Severity is required",
		http.StatusBadRequest,
	)
	ErrInvalidSeverity = apperror.New(
		apperror.CodeInvalidInput,
		"Severity must be LOW, MEDIUM or HIGH",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"Hours must be greater than zero",
		http.StatusBadRequest,
	)
)
