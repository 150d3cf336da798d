package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/model"
)

func TestStoreCreateAndGet(t *testing.T) {
	st := NewStore(time.Minute, time.Minute)

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, s.CurrentStep)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestStoreGetUnknownSession(t *testing.T) {
	st := NewStore(time.Minute, time.Minute)

	_, err := st.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreUpdateAppliesUnderLock(t *testing.T) {
	st := NewStore(time.Minute, time.Minute)
	s := st.Create()

	updated, err := st.Update(s.ID, func(sess *model.WizardSession) error {
		return sess.SetField(model.FieldFullName, "Jane Perera")
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Perera", updated.Fields.FullName)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Perera", got.Fields.FullName)
}

func TestStoreUpdatePropagatesFnError(t *testing.T) {
	st := NewStore(time.Minute, time.Minute)
	s := st.Create()

	_, err := st.Update(s.ID, func(sess *model.WizardSession) error {
		return sess.SetField("no_such_field", "x")
	})
	assert.Error(t, err)
}

func TestStoreDelete(t *testing.T) {
	st := NewStore(time.Minute, time.Minute)
	s := st.Create()

	st.Delete(s.ID)
	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreSessionsExpire(t *testing.T) {
	st := NewStore(10*time.Millisecond, time.Millisecond)
	s := st.Create()

	time.Sleep(30 * time.Millisecond)
	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
