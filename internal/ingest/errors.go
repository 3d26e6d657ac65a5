package ingest

import (
	"fmt"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrUnreadableFile reports input that is not a readable spreadsheet or CSV.
	ErrUnreadableFile = constError("unreadable spreadsheet")

	// ErrMissingSheet reports a workbook without one of the three required sheets.
	ErrMissingSheet = constError("required sheet not found")

	// ErrInvalidTables is matched by every ValidationError.
	ErrInvalidTables = constError("invalid lookup tables")
)

// ValidationError lists every problem found in an upload. Nothing is loaded
// when it is returned.
type ValidationError struct {
	Problems      []string
	MissingSheets []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTables, strings.Join(e.Problems, "; "))
}

// Is matches ErrInvalidTables always and ErrMissingSheet when a sheet was absent.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidTables:
		return true
	case ErrMissingSheet:
		return len(e.MissingSheets) > 0
	}
	return false
}

func (e *ValidationError) add(problems ...string) {
	e.Problems = append(e.Problems, problems...)
}

func (e *ValidationError) empty() bool {
	return len(e.Problems) == 0
}
