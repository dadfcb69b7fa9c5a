package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrDataAccess marks a persistence read/write failure. The pattern
	// tracker surfaces it to the caller; the detector and the scheduled
	// processor absorb it per item instead.
	ErrDataAccess = errors.New("data access failure")
)
