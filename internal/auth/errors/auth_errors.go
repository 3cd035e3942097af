package autherrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "Invalid email or password", http.StatusUnauthorized)
	ErrAccountDisabled    = apperror.New(apperror.CodeForbidden, "Account is disabled", http.StatusForbidden)
	ErrInvalidToken       = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	ErrInvalidUserID      = apperror.New(apperror.CodeUnauthorized, "Invalid user ID", http.StatusUnauthorized)
	ErrUserNotFound       = apperror.New(apperror.CodeUnauthorized, "User no longer exists", http.StatusUnauthorized)
	ErrTokenGeneration    = apperror.New(apperror.CodeInternalError, "Could not generate token", http.StatusInternalServerError)
)
