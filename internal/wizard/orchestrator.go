package wizard

import (
	"context"
	"fmt"

	"github.com/kash05/court-connect/internal/courtconnect"
)

type Status string

const (
	StatusEditing   Status = "editing"
	StatusSubmitted Status = "submitted"
)

// Submitter is the property submission service the completed aggregate is
// handed to. It returns the new property's ID.
type Submitter interface {
	Submit(ctx context.Context, form courtconnect.PropertyForm) (string, error)
}

type SubmitFunc func(ctx context.Context, form courtconnect.PropertyForm) (string, error)

func (f SubmitFunc) Submit(ctx context.Context, form courtconnect.PropertyForm) (string, error) {
	return f(ctx, form)
}

// Orchestrator walks the fixed step order, merging each submitted section
// into the aggregate. It moves exactly one step at a time. Completion marks
// are only informational and survive going back.
//
// An Orchestrator is not safe for concurrent use.
type Orchestrator struct {
	form       courtconnect.PropertyForm
	current    int
	completed  map[courtconnect.StepKey]bool
	status     Status
	propertyID string
	submitter  Submitter
	active     Controller
}

func NewOrchestrator(s Submitter) *Orchestrator {
	o := &Orchestrator{
		completed: make(map[courtconnect.StepKey]bool),
		status:    StatusEditing,
		submitter: s,
	}
	o.active = o.controllerFor(courtconnect.Steps[0].Key)
	return o
}

func (o *Orchestrator) controllerFor(step courtconnect.StepKey) Controller {
	c, err := NewController(step, o.form.Section(step), o)
	if err != nil {
		// Sections are only ever stored by their own step.
		panic(fmt.Sprintf("wizard: seeding %s: %v", step, err))
	}
	return c
}

func (o *Orchestrator) Current() courtconnect.Step { return courtconnect.Steps[o.current] }

func (o *Orchestrator) Status() Status { return o.status }

func (o *Orchestrator) PropertyID() string { return o.propertyID }

// Controller returns the controller of the current step.
func (o *Orchestrator) Controller() Controller { return o.active }

func (o *Orchestrator) Completed(step courtconnect.StepKey) bool { return o.completed[step] }

// Form returns a snapshot of the aggregate.
func (o *Orchestrator) Form() courtconnect.PropertyForm { return o.form.Clone() }

// Next merges data as the section of step and advances. On the last step
// the whole aggregate goes to the submitter; if that fails the wizard
// stays on the last step with the aggregate intact so it can be retried.
func (o *Orchestrator) Next(ctx context.Context, step courtconnect.StepKey, data any) error {
	if o.status == StatusSubmitted {
		return ErrClosed
	}
	if step != o.Current().Key {
		return fmt.Errorf("%w: got %q, current is %q", ErrStepMismatch, step, o.Current().Key)
	}
	if errs := Validate(step, data); len(errs) > 0 {
		return &ValidationError{Step: step, Field: errs[0]}
	}
	if err := o.form.SetSection(step, data); err != nil {
		return err
	}
	o.completed[step] = true

	if o.current < len(courtconnect.Steps)-1 {
		o.current++
		o.active = o.controllerFor(o.Current().Key)
		return nil
	}

	if err := ValidateForm(o.form); err != nil {
		return err
	}
	id, err := o.submitter.Submit(ctx, o.form.Clone())
	if err != nil {
		return &SubmissionError{Err: err}
	}
	o.status = StatusSubmitted
	o.propertyID = id
	return nil
}

// Back moves to the previous step, discarding unsaved edits of the
// current one. It is a no-op on the first step.
func (o *Orchestrator) Back() error {
	if o.status == StatusSubmitted {
		return ErrClosed
	}
	if o.current == 0 {
		return nil
	}
	o.current--
	o.active = o.controllerFor(o.Current().Key)
	return nil
}
