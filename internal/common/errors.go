// Package common defines shared constants and sentinel errors used across
// the Mystery Card server. Callers should use errors.Is to match these
// values; services wrap them with detail via fmt.Errorf("%w: ...").
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorValidation    = errors.New("validation error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorNotConfigured = errors.New("not configured")

	// Auth errors (malformed, badly signed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
