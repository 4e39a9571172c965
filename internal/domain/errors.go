package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both "entity does not exist" and "entity belongs to a
// different dive center". The two cases are deliberately indistinguishable so
// that probing for other tenants' record IDs leaks nothing.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError is returned when an equipment item is already committed to an
// overlapping rental window. It carries the full conflicting set so callers
// can render a specific rejection rather than a generic failure.
type ConflictError struct {
	EquipmentItemID int32
	Conflicts       []AssignmentConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("equipment item %d has %d conflicting assignment(s)", e.EquipmentItemID, len(e.Conflicts))
}

// StateError reports an operation applied to an entity whose lifecycle state
// does not permit it (returning a returned assignment, consuming an exhausted
// package, charging damage twice).
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

func NewStateError(format string, args ...any) *StateError {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}
