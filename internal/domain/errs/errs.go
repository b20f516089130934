// Package errs holds the error taxonomy shared by stores, services and transport.
package errs

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPreconditionNotMet = errors.New("precondition not met")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
)

// TransientError marks a store failure the caller may retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return e.Op + ": transient failure"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransientError
	if errors.As(err, &te) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &TransientError{Op: op, Err: err}
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var su *MatchStatusUnknownError
	if errors.As(err, &su) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// MatchStatusUnknownError is returned when the reverse decision could not be read.
// The like itself is stored; only the match outcome is unknown.
type MatchStatusUnknownError struct {
	LikerID string
	LikedID string
	Err     error
}

func (e *MatchStatusUnknownError) Error() string {
	return fmt.Sprintf("match status unknown for %s -> %s: %v", e.LikerID, e.LikedID, e.Err)
}

func (e *MatchStatusUnknownError) Unwrap() error {
	return e.Err
}

func IsMatchStatusUnknown(err error) (*MatchStatusUnknownError, bool) {
	var su *MatchStatusUnknownError
	if errors.As(err, &su) {
		return su, true
	}
	return nil, false
}

// Invalid wraps ErrInvalidInput with a reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
