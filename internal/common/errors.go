// Package common defines shared constants and sentinel errors used across
// client and server layers of ConnectLink. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("user already exists with this email")
	ErrAlreadyApplied = errors.New("already applied to this opportunity")
	ErrEmptyPassword  = errors.New("password hash must not be empty")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrOpportunityClosed  = errors.New("opportunity is not open")
	ErrRateLimited        = errors.New("rate limited")
	ErrStorageDisabled    = errors.New("storage is not configured")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
