package domain

import "errors"

// Error taxonomy shared by services, handlers and the API client. Handlers
// map these onto HTTP status codes; the client maps status codes back.
var (
	ErrForbidden    = errors.New("user is not a participant of this swap")
	ErrInvalidState = errors.New("operation is not valid for the current swap status")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service temporarily unavailable")
	ErrValidation   = errors.New("invalid input")
)
