package attachment

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
)

// fileDevice reads frames from a snapshot file kept current by the
// registration desk's camera daemon. It stands in for a direct capture stack
// on kiosk installs.
type fileDevice struct {
	mu   sync.Mutex
	path string
	open bool
}

// NewFileDevice returns a Device backed by a snapshot file.
func NewFileDevice(path string) Device {
	return &fileDevice{path: path}
}

func (d *fileDevice) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := os.Stat(d.path); err != nil {
		return fmt.Errorf("capture source unavailable: %w", err)
	}
	d.open = true
	return nil
}

func (d *fileDevice) Frame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return nil, fmt.Errorf("capture source is not open")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

func (d *fileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}
