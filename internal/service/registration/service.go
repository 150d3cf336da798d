package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/apiclient"
	"github.com/lankaspa/portal/internal/attachment"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/wizard"
	"github.com/lankaspa/portal/pkg/messaging"
	"github.com/lankaspa/portal/pkg/metrics"
)

// ErrSubmissionInFlight means a submit was requested while one is already
// running for the same session. The second request is a no-op.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// RequiredAttachments for a complete therapist registration. These are
// gathered step by step but re-checked here in full: step-local validation
// and final completeness are deliberately independent.
var RequiredAttachments = []model.AttachmentKind{
	model.KindIdentityDocument,
	model.KindMedicalCertificate,
	model.KindProfileImage,
}

// Submitter is the slice of the upstream client the assembler needs.
type Submitter interface {
	SubmitRegistration(ctx context.Context, fields model.RegistrationFields, attachments []*model.Attachment) error
}

// Outcome of a submit attempt.
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeRejected    Outcome = "rejected"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeIncomplete  Outcome = "incomplete"
)

// SubmitResult is what the wizard surfaces to the user after a submit.
type SubmitResult struct {
	Outcome     Outcome           `json:"outcome"`
	Message     string            `json:"message,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Servicer drives the registration wizard end to end.
type Servicer interface {
	Start() *model.WizardSession
	Get(id string) (*model.WizardSession, error)
	SetFields(id string, values map[string]string) (*model.WizardSession, error)
	Next(id string) (*model.WizardSession, error)
	Previous(id string) (*model.WizardSession, error)
	Attach(id string, kind model.AttachmentKind, filename string, data []byte) (*model.WizardSession, error)
	AttachCaptured(id string, att *model.Attachment) (*model.WizardSession, error)
	RemoveAttachment(id string, kind model.AttachmentKind) (*model.WizardSession, error)
	Cancel(id string)
	Submit(ctx context.Context, id string) (*SubmitResult, error)
}

type Service struct {
	store     *wizard.Store
	sequencer *wizard.Sequencer
	acceptor  *attachment.Acceptor
	submitter Submitter
	bus       *messaging.EventBus
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(
	store *wizard.Store,
	sequencer *wizard.Sequencer,
	acceptor *attachment.Acceptor,
	submitter Submitter,
	bus *messaging.EventBus,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		store:     store,
		sequencer: sequencer,
		acceptor:  acceptor,
		submitter: submitter,
		bus:       bus,
		metrics:   m,
		logger:    logger.With().Str("component", "registration").Logger(),
	}
}

func (s *Service) Start() *model.WizardSession {
	sess := s.store.Create()
	if s.metrics != nil {
		s.metrics.WizardSessionsStarted.Inc()
	}
	return sess
}

func (s *Service) Get(id string) (*model.WizardSession, error) {
	return s.store.Get(id)
}

// SetFields applies edits in one pass. Each edited field's displayed error
// clears immediately regardless of the new value.
func (s *Service) SetFields(id string, values map[string]string) (*model.WizardSession, error) {
	return s.store.Update(id, func(sess *model.WizardSession) error {
		for name, value := range values {
			if err := sess.SetField(name, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Next(id string) (*model.WizardSession, error) {
	return s.store.Update(id, func(sess *model.WizardSession) error {
		s.sequencer.Next(sess)
		return nil
	})
}

func (s *Service) Previous(id string) (*model.WizardSession, error) {
	return s.store.Update(id, func(sess *model.WizardSession) error {
		s.sequencer.Previous(sess)
		return nil
	})
}

// Attach validates and stores a picked file. A valid file replaces any
// previous attachment of the same kind wholesale; a rejected file leaves the
// existing attachment untouched.
func (s *Service) Attach(id string, kind model.AttachmentKind, filename string, data []byte) (*model.WizardSession, error) {
	att, err := s.acceptor.Accept(kind, filename, data)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AttachmentRejections.WithLabelValues("picker").Inc()
		}
		return nil, err
	}
	return s.AttachCaptured(id, att)
}

// AttachCaptured stores an attachment that already passed acceptance, such
// as a camera capture.
func (s *Service) AttachCaptured(id string, att *model.Attachment) (*model.WizardSession, error) {
	return s.store.Update(id, func(sess *model.WizardSession) error {
		return sess.Attachments.Set(att)
	})
}

func (s *Service) RemoveAttachment(id string, kind model.AttachmentKind) (*model.WizardSession, error) {
	return s.store.Update(id, func(sess *model.WizardSession) error {
		sess.Attachments.Clear(kind)
		return nil
	})
}

// Cancel destroys the session and everything in it.
func (s *Service) Cancel(id string) {
	s.store.Delete(id)
}

// Submit drives the terminal transition. It re-validates the final step,
// independently re-checks attachment completeness, then issues exactly one
// multipart request. On any failure the session survives intact so the user
// retries without re-entering data; on success the session is destroyed.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	var fields model.RegistrationFields
	var atts []*model.Attachment

	_, err := s.store.Update(id, func(sess *model.WizardSession) error {
		if sess.Submitting {
			return ErrSubmissionInFlight
		}
		if !s.sequencer.CanSubmit(sess) {
			return errIncomplete
		}
		if missing := sess.Attachments.Missing(RequiredAttachments); len(missing) > 0 {
			for _, kind := range missing {
				sess.Errors[string(kind)] = "This document is required"
			}
			return errIncomplete
		}

		sess.Submitting = true
		fields = sess.Fields
		atts = []*model.Attachment{
			sess.Attachments.IdentityDocument,
			sess.Attachments.MedicalCertificate,
			sess.Attachments.ProfileImage,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			return nil, ErrSubmissionInFlight
		}
		if errors.Is(err, errIncomplete) {
			sess, getErr := s.store.Get(id)
			if getErr != nil {
				return nil, getErr
			}
			return &SubmitResult{
				Outcome:     OutcomeIncomplete,
				Message:     "please complete the highlighted fields",
				FieldErrors: sess.Errors,
			}, nil
		}
		return nil, err
	}

	result := s.dispatch(ctx, id, fields, atts)
	if s.metrics != nil {
		s.metrics.WizardSubmissions.WithLabelValues(string(result.Outcome)).Inc()
	}
	return result, nil
}

var errIncomplete = errors.New("wizard incomplete")

func (s *Service) dispatch(ctx context.Context, id string, fields model.RegistrationFields, atts []*model.Attachment) *SubmitResult {
	err := s.submitter.SubmitRegistration(ctx, fields, atts)
	if err == nil {
		s.store.Delete(id)
		s.publish(ctx)
		s.logger.Info().Str("session", id).Msg("registration accepted")
		return &SubmitResult{
			Outcome: OutcomeAccepted,
			Message: "registration submitted",
		}
	}

	// Failure: the session is preserved and re-armed for a user-initiated
	// retry. Nothing is cleared.
	_, updateErr := s.store.Update(id, func(sess *model.WizardSession) error {
		sess.Submitting = false
		var rej *apiclient.Rejection
		if errors.As(err, &rej) {
			sess.Errors = rej.Fields
		}
		return nil
	})
	if updateErr != nil {
		s.logger.Error().Err(updateErr).Str("session", id).Msg("failed to re-arm session after submit failure")
	}

	var rej *apiclient.Rejection
	if errors.As(err, &rej) {
		return &SubmitResult{
			Outcome:     OutcomeRejected,
			Message:     rej.Message,
			FieldErrors: rej.Fields,
		}
	}

	s.logger.Warn().Err(err).Str("session", id).Msg("registration submission failed")
	return &SubmitResult{
		Outcome: OutcomeUnreachable,
		Message: "we could not reach the registration service, please try again",
	}
}

func (s *Service) publish(ctx context.Context) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, messaging.Event{Type: messaging.EventRegistrationCreated}); err != nil {
		s.logger.Warn().Err(err).Msg(fmt.Sprintf("failed to publish %s event", messaging.EventRegistrationCreated))
	}
}
