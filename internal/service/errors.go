package service

import "errors"

// Sentinel errors form the boundary taxonomy. Handlers map them onto HTTP
// statuses; anything that is none of these surfaces as a 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrSearchUnavailable  = errors.New("search unavailable")
)
