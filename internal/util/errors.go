package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for the challenge workflow. Services wrap them with
// fmt.Errorf("%w: ...") to attach a caller-facing detail; controllers match
// with errors.Is to pick the HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrChallengeInactive  = errors.New("challenge inactive")
	ErrNotParticipating   = errors.New("not participating")
	ErrMissingRequiredProof = errors.New("missing required proof")
	ErrAlreadyVerified    = errors.New("already verified")
	ErrInfrastructure     = errors.New("infrastructure failure")

	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validationf wraps ErrValidation with a specific message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with the missing entity's name.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// WrapInfra marks an unexpected store error as infrastructure failure.
// Semantic errors pass through untouched so errors.Is keeps working.
func WrapInfra(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInfrastructure, err)
}
