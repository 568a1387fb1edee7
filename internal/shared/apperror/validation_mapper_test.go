package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"platoon-pulse/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type linkRequest struct {
	ApplicationNumber string `json:"application_number" binding:"required"`
	Email             string `json:"email" binding:"omitempty,email"`
	Password          string `json:"password" binding:"omitempty,min=8"`
}

func TestMapValidationError(t *testing.T) {
	tests := []struct {
		name string
		req  linkRequest
		msg  string
	}{
		{"multi word json name", linkRequest{}, "Application Number is required"},
		{"email", linkRequest{ApplicationNumber: "APP-1", Email: "nope"}, "Email must be a valid email address"},
		{"min length", linkRequest{ApplicationNumber: "APP-1", Password: "short"}, "Password must be at least 8 characters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tc.req)

			appErr := apperror.MapValidationError(err)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, tc.msg, appErr.Message)
		})
	}

	t.Run("non validator error", func(t *testing.T) {
		appErr := apperror.MapValidationError(errors.New("unexpected EOF"))
		assert.Equal(t, "Invalid request body", appErr.Message)
	})
}
