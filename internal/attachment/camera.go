package attachment

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/lankaspa/portal/internal/model"
	apperrors "github.com/lankaspa/portal/pkg/errors"
)

// CaptureState is the camera flow's state machine.
type CaptureState int

const (
	StateIdle CaptureState = iota
	StateRequesting
	StateStreaming
	StateCaptured
	StateCancelled
	StateError
)

func (s CaptureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateCaptured:
		return "captured"
	case StateCancelled:
		return "cancelled"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Device is a video capture source. Open acquires the device exclusively;
// Close releases it and must be safe to call more than once.
type Device interface {
	Open(ctx context.Context) error
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// CaptureSize is the side length of the square profile image produced by a
// camera capture.
const CaptureSize = 480

// Capture drives one camera session. Whatever path the session takes, the
// device handle is released exactly once: on capture, cancel, frame timeout,
// open failure or teardown. A leaked handle keeps the camera indicator lit
// and blocks later captures.
type Capture struct {
	mu           sync.Mutex
	state        CaptureState
	device       Device
	frameTimeout time.Duration
	released     bool
}

func NewCapture(device Device, frameTimeout time.Duration) *Capture {
	if frameTimeout <= 0 {
		frameTimeout = 3 * time.Second
	}
	return &Capture{
		state:        StateIdle,
		device:       device,
		frameTimeout: frameTimeout,
	}
}

// State returns the current capture state.
func (c *Capture) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start acquires the device and begins streaming. Failures are recoverable:
// the state moves to error, the handle is released and the caller falls back
// to the file-picker path.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return apperrors.BadRequest("capture already started", nil)
	}

	c.state = StateRequesting
	if err := c.device.Open(ctx); err != nil {
		c.state = StateError
		c.releaseLocked()
		return apperrors.DeviceUnavailable(err)
	}

	c.state = StateStreaming
	return nil
}

// Snap grabs the current frame, rasterizes it into a fixed-size square JPEG
// and releases the device. If no renderable frame arrives within the frame
// timeout the device is released and a recoverable error is returned.
func (c *Capture) Snap(ctx context.Context) (*model.Attachment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStreaming {
		return nil, apperrors.BadRequest("capture is not streaming", nil)
	}

	frameCtx, cancel := context.WithTimeout(ctx, c.frameTimeout)
	defer cancel()

	frame, err := c.device.Frame(frameCtx)
	if err != nil {
		c.state = StateError
		c.releaseLocked()
		return nil, apperrors.DeviceUnavailable(err)
	}

	data, err := encodeSquareJPEG(frame, CaptureSize)
	if err != nil {
		c.state = StateError
		c.releaseLocked()
		return nil, apperrors.DeviceUnavailable(err)
	}

	c.state = StateCaptured
	c.releaseLocked()

	return &model.Attachment{
		Kind:      model.KindProfileImage,
		Filename:  "camera-capture.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: int64(len(data)),
		Data:      data,
		Preview:   dataURL("image/jpeg", data),
	}, nil
}

// Cancel abandons the session and releases the device, from any state.
func (c *Capture) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRequesting || c.state == StateStreaming || c.state == StateIdle {
		c.state = StateCancelled
	}
	c.releaseLocked()
}

// Close releases the device on component teardown. Idempotent.
func (c *Capture) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

// Released reports whether the device handle has been given back.
func (c *Capture) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

func (c *Capture) releaseLocked() {
	if c.released {
		return
	}
	c.released = true
	_ = c.device.Close()
}

// encodeSquareJPEG center-crops img to a square and scales it to size x size.
// Nearest-neighbour is good enough for a profile thumbnail.
func encodeSquareJPEG(img image.Image, size int) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	side := w
	if h < side {
		side = h
	}
	offX := bounds.Min.X + (w-side)/2
	offY := bounds.Min.Y + (h-side)/2

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		srcY := offY + y*side/size
		for x := 0; x < size; x++ {
			srcX := offX + x*side/size
			out.Set(x, y, img.At(srcX, srcY))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
