// Package wizard implements the registration wizard's step machine and the
// store that owns live wizard sessions.
package wizard

import (
	"github.com/lankaspa/portal/internal/model"
)

// Validator checks one step's fields and returns field name -> message.
type Validator func(fields *model.RegistrationFields, step int) map[string]string

// Sequencer gates movement through the wizard's steps. Steps are visited
// strictly in order; there is no jump transition.
type Sequencer struct {
	totalSteps int
	validate   Validator
}

func NewSequencer(totalSteps int, validate Validator) *Sequencer {
	return &Sequencer{totalSteps: totalSteps, validate: validate}
}

// TotalSteps returns the number of wizard pages.
func (q *Sequencer) TotalSteps() int {
	return q.totalSteps
}

// Next advances the session one step if the current step validates cleanly.
// On failure the session's error map is populated and the step is unchanged.
// Advancing past the last step is a no-op.
func (q *Sequencer) Next(s *model.WizardSession) bool {
	errs := q.validate(&s.Fields, s.CurrentStep)
	if len(errs) > 0 {
		s.Errors = errs
		return false
	}

	s.ClearErrors()
	if s.CurrentStep < q.totalSteps {
		s.CurrentStep++
	}
	return true
}

// Previous steps back without validating and clears any displayed errors.
// It is a no-op on the first step.
func (q *Sequencer) Previous(s *model.WizardSession) {
	if s.CurrentStep > 1 {
		s.CurrentStep--
	}
	s.ClearErrors()
}

// CanSubmit reports whether the session may leave the wizard: it must sit on
// the final step and that step must validate. On failure the session's error
// map is populated.
func (q *Sequencer) CanSubmit(s *model.WizardSession) bool {
	if s.CurrentStep != q.totalSteps {
		return false
	}

	errs := q.validate(&s.Fields, s.CurrentStep)
	if len(errs) > 0 {
		s.Errors = errs
		return false
	}
	return true
}
