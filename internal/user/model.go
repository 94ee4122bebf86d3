package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
)

// User is a registered account. Any user may both own items and book
// items owned by others.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// UpdateRequest holds a partial profile update; nil fields are left alone.
type UpdateRequest struct {
	Name  *string
	Email *string
}
