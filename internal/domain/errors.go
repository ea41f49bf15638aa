package domain

import "errors"

// Sentinel errors shared by repositories and services. Controllers map them to
// HTTP status codes with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrOccurrenceCancelled is returned when acting on a cancelled occurrence.
	ErrOccurrenceCancelled = errors.New("occurrence has been cancelled")
	// ErrDuplicateReservation is returned by Create when the user already holds a
	// reservation for the same occurrence.
	ErrDuplicateReservation = errors.New("a reservation for this occurrence already exists")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)
