package linkingerrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Linking request not found",
		http.StatusNotFound,
	)
	ErrCadetNotFound = apperror.New(
		apperror.CodeNotFound,
		"No cadet with that application number",
		http.StatusNotFound,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid linking request ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be PENDING, APPROVED, REJECTED or CANCELLED",
		http.StatusBadRequest,
	)
	ErrAlreadyLinked = apperror.New(
		apperror.CodeInvalidState,
		"Account is already linked to a cadet profile",
		http.StatusConflict,
	)
	ErrCadetAlreadyLinked = apperror.New(
		apperror.CodeConflict,
		"Cadet profile is already linked to another account",
		http.StatusConflict,
	)
	ErrPendingRequestExists = apperror.New(
		apperror.CodeConflict,
		"A pending linking request already exists",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Linking request is no longer pending",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeValidation,
		"Rejection Reason is required",
		http.StatusBadRequest,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"Only the requester can cancel this request",
		http.StatusForbidden,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"Requesting account no longer exists",
		http.StatusNotFound,
	)
)
