package medicalerrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrMedicalRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Medical record not found",
		http.StatusNotFound,
	)
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cadet not found",
		http.StatusNotFound,
	)
	ErrInvalidCadetID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid cadet ID",
		http.StatusBadRequest,
	)
)
