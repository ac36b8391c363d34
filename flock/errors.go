/*
errors.go - NotFound-class errors for family resolution

PURPOSE:
  These are the pre-computation validation failures of the domain layer.
  They surface to callers as-is (mapped to 404 by the HTTP layer) and
  are never retried. Wrap with fmt.Errorf("%w") when adding context.
*/
package flock

import (
	"errors"
	"fmt"
)

var (
	// ErrLotNotFound is returned when the requested parent lot does not
	// exist in the repository.
	ErrLotNotFound = errors.New("lot not found")

	// ErrNotParentLot is returned when the requested lot has a parent of
	// its own and therefore cannot head a family.
	ErrNotParentLot = errors.New("lot is not a parent lot")

	// ErrEmptyFamily is returned when family resolution yields no member
	// lots. The parent itself always counts, so this indicates a storage
	// inconsistency rather than a thin family.
	ErrEmptyFamily = errors.New("lot family is empty")
)

// NotParentError carries the offending lot and its parent reference.
type NotParentError struct {
	LotID    LotID
	ParentID LotID
}

func (e *NotParentError) Error() string {
	return fmt.Sprintf("lot %s is a child of %s and cannot head a family", e.LotID, e.ParentID)
}

func (e *NotParentError) Unwrap() error { return ErrNotParentLot }

// IsNotFound reports whether err is any of the NotFound-class failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLotNotFound) ||
		errors.Is(err, ErrNotParentLot) ||
		errors.Is(err, ErrEmptyFamily)
}
