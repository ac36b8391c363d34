/*
errors.go - Pre-computation validation failures

PURPOSE:
  The engine fails fast or not at all: every error here is raised before
  the balance walk begins, and once the walk starts, degraded input data
  zero-fills and saturates instead of failing. NotFound-class errors
  live in the flock package; this file owns the range validation.
*/
package accounting

import (
	"errors"
	"fmt"

	"github.com/avigest/flock-engine/flock"
)

var (
	// ErrInvalidRange is returned when a requested or derived date range
	// runs backwards (from after to). Nothing is computed and no partial
	// report is returned.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrWeekOutOfRange is returned when an explicit week index falls
	// outside the family's computed calendar.
	ErrWeekOutOfRange = errors.New("week index out of range")
)

// InvalidRangeError carries the offending bounds.
type InvalidRangeError struct {
	From flock.DayPoint
	To   flock.DayPoint
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: from %s is after to %s", e.From, e.To)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// IsClientError reports whether err is caused by invalid caller input,
// as opposed to a storage failure. The HTTP layer maps these to 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrWeekOutOfRange)
}
