package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to controllers and the messaging UI. Validation and
// not-found are sentinels so callers can test with errors.Is; store failures
// are wrapped in StoreError so a backend outage is never mistaken for
// "no data".
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
)

// StoreError marks a transport/backend failure while talking to the record
// store. Callers that performed an optimistic UI update roll it back when
// they see one of these.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
