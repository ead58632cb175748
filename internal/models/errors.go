package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEventNotFound  = fmt.Errorf("event %w", ErrNotFound)
	ErrSeatNotFound   = fmt.Errorf("seat %w", ErrNotFound)
	ErrClientNotFound = fmt.Errorf("client %w", ErrNotFound)
	ErrTicketNotFound = fmt.Errorf("ticket %w", ErrNotFound)

	ErrSeatTaken     = errors.New("seat already sold for event")
	ErrSeatDuplicate = errors.New("seat already exists")
	ErrValidation    = errors.New("validation error")
	ErrStorage       = errors.New("storage error")
)

// SeatConflictError reports the seat that was found occupied for an event.
type SeatConflictError struct {
	EventID int64
	SeatID  int64
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d already sold for event %d", e.SeatID, e.EventID)
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatTaken
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps an unexpected persistence fault so that callers can
// match it with errors.Is(err, ErrStorage) and still unwrap the cause.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
