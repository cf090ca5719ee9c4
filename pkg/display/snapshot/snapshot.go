// Package snapshot writes framebuffer contents to PNG files so the dashboard
// can be inspected without a panel attached.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/danpilch/oledmon/pkg/display"
)

// Panel implements display.Panel by saving every flushed frame as a PNG.
type Panel struct {
	path   string
	scale  int
	invert bool
	frames int
}

// New creates a snapshot panel writing to path. scale multiplies both
// dimensions (values below 1 are treated as 1); invert renders dark pixels
// on a light background.
func New(path string, scale int, invert bool) *Panel {
	if scale < 1 {
		scale = 1
	}
	return &Panel{path: path, scale: scale, invert: invert}
}

// Init makes sure the output directory exists.
func (p *Panel) Init(_ context.Context) error {
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create snapshot directory: %w", err)
		}
	}
	return nil
}

// Flush overwrites the PNG with the current frame.
func (p *Panel) Flush(fb *display.Framebuffer) error {
	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("cannot create snapshot: %w", err)
	}
	if err := Encode(f, fb, p.scale, p.invert); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	p.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (p *Panel) Frames() int { return p.frames }

// Close is a no-op.
func (p *Panel) Close() error { return nil }

// Image returns the framebuffer as an upscaled image.
func Image(fb *display.Framebuffer, scale int, invert bool) image.Image {
	var img image.Image = imaging.Clone(fb)
	if invert {
		img = imaging.Invert(img)
	}
	if scale > 1 {
		img = imaging.Resize(img, fb.Width()*scale, fb.Height()*scale, imaging.NearestNeighbor)
	}
	return img
}

// Encode writes the framebuffer to w as a PNG.
func Encode(w io.Writer, fb *display.Framebuffer, scale int, invert bool) error {
	if err := imaging.Encode(w, Image(fb, scale, invert), imaging.PNG); err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	return nil
}
