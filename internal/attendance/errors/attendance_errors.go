package attendanceerrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Practice session not found",
		http.StatusNotFound,
	)
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cadet not found",
		http.StatusNotFound,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Entry time must be before exit time",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Time must be formatted as HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid id",
		http.StatusBadRequest,
	)
	ErrCadetRequired = apperror.New(
		apperror.CodeValidation,
		"Cadet Id is required",
		http.StatusBadRequest,
	)
	ErrNotOwnRecord = apperror.New(
		apperror.CodeForbidden,
		"Cadets can only mark their own attendance",
		http.StatusForbidden,
	)
	ErrInvalidMarkKind = apperror.New(
		apperror.CodeInvalidInput,
		"Mark kind must be entry or exit",
		http.StatusBadRequest,
	)
	ErrInvalidReportFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Report format must be txt or pdf",
		http.StatusBadRequest,
	)
)
