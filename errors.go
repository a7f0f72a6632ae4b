package querycache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMode is returned for an unknown cache mode.
	ErrInvalidMode = errors.New("invalid cache mode")

	// ErrInvalidMaxResults is returned for a negative per-database ceiling.
	ErrInvalidMaxResults = errors.New("max results must not be negative")

	// ErrNilEntry is returned when a nil entry is stored.
	ErrNilEntry = errors.New("entry must not be nil")
)

// ErrModeString indicates a mode name that ParseMode does not know.
//
// errors.Is(err, ErrInvalidMode) holds for every ErrModeString.
type ErrModeString struct {
	Value string
}

func (e *ErrModeString) Error() string {
	return fmt.Sprintf("invalid cache mode %q (want off, on or demand)", e.Value)
}

func (e *ErrModeString) Unwrap() error { return ErrInvalidMode }
