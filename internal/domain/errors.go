package domain

import "errors"

var (
	ErrNotFound                = errors.New("record not found")
	ErrEmailTaken              = errors.New("email already registered")
	ErrAlreadyApplied          = errors.New("already applied to this job")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("application status cannot be changed")
	ErrTooManyAttempts         = errors.New("too many login attempts")
)
