package common

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSide      = errors.New("invalid side")
	ErrMissingSide      = errors.New("missing side")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrMissingPrice     = errors.New("missing price")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidQuantity  = errors.New("invalid quantity")
)

// RecordError ties a validation failure to the record that caused it.
type RecordError struct {
	Kind  RecordKind
	Index int // Position in the input sequence
	ID    int64
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record: %s %d (index %d): %v", e.Kind, e.ID, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
