package patient

import (
	"fmt"
	"strings"
)

// FieldViolation names one failed constraint.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every constraint a record or request violated.
// It always indicates a client-input problem.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) add(field, reason string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Reason: reason})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError indicates the referenced record id is absent, or that the
// collection document itself does not exist yet.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "patient data not found"
	}
	return fmt.Sprintf("patient %q not found", e.ID)
}

// ConflictError indicates a create with an id that already exists.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("patient %q already exists", e.ID)
}

// StorageError wraps a read/write failure on the authoritative file store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConnectionError wraps a failure to establish a mirror database session.
// It never reaches an HTTP caller.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mirror connect: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ImportError wraps a failed bulk import into the mirror database.
// It never reaches an HTTP caller.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("mirror import: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
