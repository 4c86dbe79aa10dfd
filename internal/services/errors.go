package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes; everything else surfaces as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this course")
	ErrInvalidTransition  = errors.New("invalid enrollment status transition")
)
