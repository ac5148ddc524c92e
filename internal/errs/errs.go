// File: internal/errs/errs.go
package errs

import (
	"errors"
	"fmt"
)

// Error classes shared by the registry, session, listing, transfer and history layers.
// Callers match them with errors.Is; the message of the wrapping error carries the detail
var (
	ErrNotFound        = errors.New("not found")
	ErrAmbiguousPath   = errors.New("ambiguous path")
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrIOFailure       = errors.New("i/o failure")
	ErrNoActiveBucket  = errors.New("no bucket selected; use changeBucket(cb)")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Wraps a local filesystem or network stream failure as an IOFailure
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIOFailure, op, err)
}

// Reports whether err belongs to the IOFailure class
func IsIO(err error) bool {
	return errors.Is(err, ErrIOFailure)
}
