package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors:
//   - ErrNotFound: record does not exist
//   - ErrAlreadyUsed: unique key (email, validation code) already taken
//   - ErrInvalidState: record is in the wrong state for a conditional write
//   - ErrExhausted: a bounded pool has nothing left to hand out
//   - ErrUnavailable: backing system temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrExhausted    = errors.New("exhausted")
	ErrUnavailable  = errors.New("unavailable")
)
