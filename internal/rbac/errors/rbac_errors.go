package rbacerrors

import (
	"net/http"

	"platoon-pulse/internal/shared/apperror"
)

var (
	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Permission not found",
		http.StatusNotFound,
	)

	ErrProtectedPermission = apperror.New(
		apperror.CodeInvalidState,
		"rbac:manage cannot be revoked from ADMIN",
		http.StatusConflict,
	)
)
