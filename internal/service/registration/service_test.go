package registration

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/apiclient"
	"github.com/lankaspa/portal/internal/attachment"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/validate"
	"github.com/lankaspa/portal/internal/wizard"
	apperrors "github.com/lankaspa/portal/pkg/errors"
)

type stubSubmitter struct {
	mu      sync.Mutex
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *stubSubmitter) SubmitRegistration(ctx context.Context, fields model.RegistrationFields, atts []*model.Attachment) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	return s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestService(submitter Submitter) *Service {
	store := wizard.NewStore(time.Minute, time.Minute)
	sequencer := wizard.NewSequencer(validate.TotalSteps, validate.Step)
	acceptor := attachment.NewAcceptor(attachment.DefaultLimits)
	return NewService(store, sequencer, acceptor, submitter, nil, nil, zerolog.Nop())
}

func pngBytes(size int) []byte {
	magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return append(magic, bytes.Repeat([]byte{0}, size-len(magic))...)
}

// completeSession walks a session to the review step with every field and
// attachment in place.
func completeSession(t *testing.T, svc *Service) string {
	t.Helper()

	sess := svc.Start()
	id := sess.ID

	_, err := svc.SetFields(id, map[string]string{
		model.FieldFullName:    "Jane Perera",
		model.FieldNIC:         "123456789V",
		model.FieldDateOfBirth: time.Now().AddDate(-25, 0, 0).Format("2006-01-02"),
		model.FieldGender:      "female",
	})
	require.NoError(t, err)
	_, err = svc.Next(id)
	require.NoError(t, err)

	_, err = svc.SetFields(id, map[string]string{
		model.FieldPhone:   "+94771234567",
		model.FieldEmail:   "jane@example.lk",
		model.FieldAddress: "12 Temple Road",
		model.FieldCity:    "Colombo",
	})
	require.NoError(t, err)
	_, err = svc.Next(id)
	require.NoError(t, err)

	_, err = svc.SetFields(id, map[string]string{
		model.FieldSpaID:           "spa-1",
		model.FieldExperienceYears: "5",
	})
	require.NoError(t, err)
	_, err = svc.Next(id)
	require.NoError(t, err)

	for _, kind := range RequiredAttachments {
		_, err = svc.Attach(id, kind, string(kind)+".png", pngBytes(1024))
		require.NoError(t, err)
	}

	sess, err = svc.Get(id)
	require.NoError(t, err)
	require.Equal(t, validate.TotalSteps, sess.CurrentStep)
	return id
}

func TestSubmitSuccessDestroysSession(t *testing.T) {
	submitter := &stubSubmitter{}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	result, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, 1, submitter.callCount())

	_, err = svc.Get(id)
	assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
}

func TestSubmitTransportFailurePreservesSession(t *testing.T) {
	submitter := &stubSubmitter{err: apperrors.UpstreamUnreachable(errors.New("dial tcp: refused"))}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	result, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnreachable, result.Outcome)

	// Everything survives: step, fields, attachments.
	sess, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, validate.TotalSteps, sess.CurrentStep)
	assert.Equal(t, "Jane Perera", sess.Fields.FullName)
	assert.NotNil(t, sess.Attachments.ProfileImage)
	assert.False(t, sess.Submitting)
}

func TestSubmitRetryAfterFailureSucceeds(t *testing.T) {
	submitter := &stubSubmitter{err: apperrors.UpstreamUnreachable(errors.New("boom"))}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	result, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, OutcomeUnreachable, result.Outcome)

	submitter.err = nil
	result, err = svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, 2, submitter.callCount())
}

func TestSubmitRejectionSurfacesFieldErrors(t *testing.T) {
	submitter := &stubSubmitter{err: &apiclient.Rejection{
		Message: "validation failed",
		Fields:  map[string]string{"nic": "NIC already registered"},
	}}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	result, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, "NIC already registered", result.FieldErrors["nic"])

	// The server's field errors are shown on the preserved session.
	sess, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "NIC already registered", sess.Errors["nic"])
}

func TestSubmitIsAtMostOnce(t *testing.T) {
	submitter := &stubSubmitter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), id)
		firstDone <- err
	}()

	<-submitter.started

	// A second submit while the first is in flight is refused without a
	// second network call.
	_, err := svc.Submit(context.Background(), id)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(submitter.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, submitter.callCount())
}

func TestSubmitRechecksAttachmentCompleteness(t *testing.T) {
	submitter := &stubSubmitter{}
	svc := newTestService(submitter)
	id := completeSession(t, svc)

	_, err := svc.RemoveAttachment(id, model.KindMedicalCertificate)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncomplete, result.Outcome)
	assert.Contains(t, result.FieldErrors, string(model.KindMedicalCertificate))
	assert.Equal(t, 0, submitter.callCount())
}

func TestSubmitRequiresFinalStep(t *testing.T) {
	submitter := &stubSubmitter{}
	svc := newTestService(submitter)
	sess := svc.Start()

	result, err := svc.Submit(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncomplete, result.Outcome)
	assert.Equal(t, 0, submitter.callCount())
}

func TestAttachRejectionKeepsExistingFile(t *testing.T) {
	svc := newTestService(&stubSubmitter{})
	sess := svc.Start()

	_, err := svc.Attach(sess.ID, model.KindProfileImage, "first.png", pngBytes(1024))
	require.NoError(t, err)

	_, err = svc.Attach(sess.ID, model.KindProfileImage, "huge.png", pngBytes(3<<20))
	require.Error(t, err)

	got, err := svc.Get(sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Attachments.ProfileImage)
	assert.Equal(t, "first.png", got.Attachments.ProfileImage.Filename)
}

func TestCancelDestroysSession(t *testing.T) {
	svc := newTestService(&stubSubmitter{})
	sess := svc.Start()

	svc.Cancel(sess.ID)
	_, err := svc.Get(sess.ID)
	assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
}
