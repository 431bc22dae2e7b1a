package pipeline

import (
	"errors"
	"fmt"
)

// ErrConflict matches every ConflictError.
var ErrConflict = errors.New("conflicting target entity")

// ConflictError reports two different payloads emitted under one target id.
type ConflictError struct {
	Kind     string
	ID       string
	Existing any
	Incoming any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %q: existing %s, incoming %s",
		ErrConflict, e.Kind, e.ID, render(e.Existing), render(e.Incoming))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
