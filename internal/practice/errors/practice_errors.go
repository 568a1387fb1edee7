package practiceerrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Practice session not found",
		http.StatusNotFound,
	)

	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid practice session id",
		http.StatusBadRequest,
	)

	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start time must be before end time",
		http.StatusBadRequest,
	)

	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Time must be formatted as HH:MM",
		http.StatusBadRequest,
	)
)
