// Package common defines shared constants and sentinel errors used across
// the client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Account-specific errors.
	ErrorHandleAlreadyExists  = errors.New("handle already exists")
	ErrorInvalidCredentials   = errors.New("invalid credentials")
	ErrorAlreadyLinked        = errors.New("third-party account already linked")
	ErrorLinkingNotConfigured = errors.New("account linking is not configured")

	// Auth errors (missing, invalid or malformed token).
	ErrMissingToken  = errors.New("authentication required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidState  = errors.New("invalid link state")
	ErrInvalidHeader = errors.New("invalid auth header format")
)
