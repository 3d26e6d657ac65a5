package catalog

import (
	"fmt"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidRecord is wrapped by every record-level validation failure.
	ErrInvalidRecord = constError("invalid lookup record")

	// ErrDuplicateKey reports two records sharing a primary key.
	ErrDuplicateKey = constError("duplicate lookup key")
)

// ValidationError lists every problem found in a table set.
// The set is rejected as a whole when any problem is present.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRecord, strings.Join(e.Problems, "; "))
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalidRecord).
func (e *ValidationError) Unwrap() error { return ErrInvalidRecord }
