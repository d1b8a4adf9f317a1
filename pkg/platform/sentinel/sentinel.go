package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped with fmt.Errorf %w) and services translate them into domain errors.
//
//   - ErrNotFound: no record matches the identifier
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrExpired: a draft outlived its retention window
//   - ErrInvalidState: the record is in the wrong state for the operation
//   - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
