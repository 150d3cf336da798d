package attachment

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/model"
	apperrors "github.com/lankaspa/portal/pkg/errors"
)

// stubDevice is a controllable capture source for exercising the state
// machine without hardware.
type stubDevice struct {
	mu         sync.Mutex
	openErr    error
	frameErr   error
	frameDelay time.Duration
	closeCount int
}

func (d *stubDevice) Open(ctx context.Context) error {
	return d.openErr
}

func (d *stubDevice) Frame(ctx context.Context) (image.Image, error) {
	if d.frameDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.frameDelay):
		}
	}
	if d.frameErr != nil {
		return nil, d.frameErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	img.Set(0, 0, color.White)
	return img, nil
}

func (d *stubDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCount++
	return nil
}

func (d *stubDevice) closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCount
}

func TestCaptureHappyPath(t *testing.T) {
	device := &stubDevice{}
	c := NewCapture(device, time.Second)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateStreaming, c.State())

	att, err := c.Snap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCaptured, c.State())
	assert.Equal(t, model.KindProfileImage, att.Kind)
	assert.Equal(t, "image/jpeg", att.MimeType)
	assert.NotEmpty(t, att.Data)
	assert.NotEmpty(t, att.Preview)

	// The device is released on capture, exactly once.
	assert.True(t, c.Released())
	assert.Equal(t, 1, device.closes())
}

func TestCaptureOpenFailureIsRecoverable(t *testing.T) {
	device := &stubDevice{openErr: errors.New("camera busy")}
	c := NewCapture(device, time.Second)

	err := c.Start(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrDeviceUnavailable, appErr.Code)

	assert.Equal(t, StateError, c.State())
	assert.True(t, c.Released())
}

func TestCaptureFrameTimeoutReleasesDevice(t *testing.T) {
	device := &stubDevice{frameDelay: time.Second}
	c := NewCapture(device, 20*time.Millisecond)

	require.NoError(t, c.Start(context.Background()))

	_, err := c.Snap(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateError, c.State())
	assert.True(t, c.Released())
	assert.Equal(t, 1, device.closes())
}

func TestCancelDuringStreamingReleasesDevice(t *testing.T) {
	device := &stubDevice{}
	c := NewCapture(device, time.Second)

	require.NoError(t, c.Start(context.Background()))
	c.Cancel()

	assert.Equal(t, StateCancelled, c.State())
	assert.True(t, c.Released())
	assert.Equal(t, 1, device.closes())
}

func TestCloseIsIdempotent(t *testing.T) {
	device := &stubDevice{}
	c := NewCapture(device, time.Second)

	require.NoError(t, c.Start(context.Background()))
	c.Close()
	c.Close()
	c.Cancel()

	// However many teardown paths run, the device closes once.
	assert.Equal(t, 1, device.closes())
}

func TestSnapRequiresStreaming(t *testing.T) {
	c := NewCapture(&stubDevice{}, time.Second)

	_, err := c.Snap(context.Background())
	assert.Error(t, err)
}

func TestCapturedImageIsFixedSquare(t *testing.T) {
	device := &stubDevice{}
	c := NewCapture(device, time.Second)

	require.NoError(t, c.Start(context.Background()))
	att, err := c.Snap(context.Background())
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(att.Data))
	require.NoError(t, err)
	assert.Equal(t, CaptureSize, cfg.Width)
	assert.Equal(t, CaptureSize, cfg.Height)
}
