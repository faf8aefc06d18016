package vector

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no record exists for a key. It is an
// expected outcome of a point lookup.
var ErrNotFound = errors.New("vector: record not found")

// ValidationError reports a record that is structurally unfit for Upsert.
type ValidationError struct {
	Key    string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("vector: invalid record: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("vector: invalid record %q: %s %s", e.Key, e.Field, e.Reason)
}

// DimensionMismatchError indicates a vector whose length differs from the
// store's canonical dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsDimensionMismatch reports whether err carries a *DimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var d *DimensionMismatchError
	return errors.As(err, &d)
}

// CheckDimension returns a *DimensionMismatchError when len(v) != dim.
func CheckDimension(v []float32, dim int) error {
	if len(v) != dim {
		return &DimensionMismatchError{Expected: dim, Actual: len(v)}
	}
	return nil
}
