package capture

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FileDevice is a Device that serves still frames from an image file. The
// CLI uses it in place of a live camera: every capture re-reads the file,
// so pointing it at a path that another process updates behaves like a
// slow camera.
type FileDevice struct {
	path string
}

// NewFileDevice creates a device over the given image file.
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

// Start implements Device. It verifies the file is readable.
func (d *FileDevice) Start(context.Context) error {
	if _, err := os.Stat(d.path); err != nil {
		return fmt.Errorf("capture: open %s: %w", d.path, err)
	}
	return nil
}

// Frame implements Device.
func (d *FileDevice) Frame(context.Context) (Frame, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return Frame{}, fmt.Errorf("capture: read %s: %w", d.path, err)
	}
	if len(data) == 0 {
		return Frame{}, ErrDeviceNotReady
	}

	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(d.path)))
	if mt == "" {
		mt = "image/jpeg"
	}
	return Frame{Data: data, MIME: mt}, nil
}

// Stop implements Device.
func (d *FileDevice) Stop() error {
	return nil
}
