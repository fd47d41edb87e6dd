package wizard

import (
	"errors"
	"fmt"

	"github.com/kash05/court-connect/internal/courtconnect"
)

var (
	// ErrBadUpdate is returned when a field update cannot be applied: an
	// unknown path, a value of the wrong type, or a write to derived state.
	ErrBadUpdate = errors.New("bad field update")

	// ErrClosed is returned for transitions after the wizard was submitted.
	ErrClosed = errors.New("wizard already submitted")

	// ErrStepMismatch is returned when data arrives for a step other than
	// the current one.
	ErrStepMismatch = errors.New("step is not the current step")
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError blocks a step submission. It carries the first field
// error in declaration order.
type ValidationError struct {
	Step  courtconnect.StepKey
	Field FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating %s: %v", e.Step, e.Field)
}

// SubmissionError wraps a failure of the property submission service.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting property: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func badUpdate(path string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrBadUpdate, path, fmt.Sprintf(format, args...))
}
