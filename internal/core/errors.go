package core

import "errors"

// Error taxonomy shared by every service. Services wrap these with
// fmt.Errorf("...: %w", ErrX); handlers translate them to HTTP once.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrUnauthorized    = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)
