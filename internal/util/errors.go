package util

import "errors"

var (
	ErrMissingUser     = errors.New("no user record in profile result")
	ErrUnauthenticated = errors.New("upstream rejected the session token")
	ErrInvalidMetrics  = errors.New("invalid metrics: negative or non-finite amount")
	ErrUnknownChart    = errors.New("unknown chart")
	ErrNoSession       = errors.New("no active session")
	ErrEmptyToken      = errors.New("empty token")
)
