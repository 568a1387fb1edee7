package apperror

import (
	"fmt"
	"net/http"
)

// Error codes carried in the response envelope. Handlers never invent codes;
// module error packages pick one of these.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInvalidState  = "INVALID_STATE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
)

var (
	ErrInvalidInput = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)
	ErrUnauthorized = New(CodeUnauthorized, "Sign in to continue", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "Your role cannot perform this action", http.StatusForbidden)
	ErrNotFound     = New(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrInternal     = New(CodeInternalError, "Something went wrong on our side", http.StatusInternalServerError)
)

func RequiredField(field string) *AppError {
	return fieldError("%s is required", field)
}

func InvalidField(field string) *AppError {
	return fieldError("%s is invalid", field)
}

func fieldError(format string, args ...any) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest)
}
