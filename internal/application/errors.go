package application

import (
	"errors"
	"fmt"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrFileNotFound    = errors.New("file not found")

	// ErrPrecondition matches every PreconditionError via errors.Is.
	ErrPrecondition = errors.New("precondition violation")
)

// PreconditionError reports a transition attempted from an invalid
// status/progress/flag combination.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

func precondition(op, format string, args ...interface{}) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
