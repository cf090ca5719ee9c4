// Package display provides the monochrome framebuffer the dashboard draws
// into and the Panel contract used to push frames to hardware.
package display

import (
	"context"
	"image"
	"image/color"
)

// Default panel size.
const (
	DefaultWidth  = 128
	DefaultHeight = 64
)

// Panel transmits frames to a physical or virtual display.
type Panel interface {
	// Init prepares the panel for drawing. It is called once before the first Flush.
	Init(ctx context.Context) error
	// Flush transmits the framebuffer contents.
	Flush(fb *Framebuffer) error
	// Close releases the transport.
	Close() error
}

// Discard is a Panel that drops every frame.
var Discard Panel = discard{}

type discard struct{}

func (discard) Init(context.Context) error { return nil }
func (discard) Flush(*Framebuffer) error { return nil }
func (discard) Close() error { return nil }

// Framebuffer is a 1-bit pixel buffer laid out in SSD1306 page order: each
// byte holds a column of eight vertical pixels, least significant bit on top.
// Writes outside the buffer are clipped.
type Framebuffer struct {
	width, height int
	buf           []byte
}

// NewFramebuffer allocates a cleared framebuffer. height is rounded up to a
// multiple of eight.
func NewFramebuffer(width, height int) *Framebuffer {
	pages := (height + 7) / 8
	return &Framebuffer{
		width:  width,
		height: height,
		buf:    make([]byte, width*pages),
	}
}

// Width returns the framebuffer width in pixels.
func (f *Framebuffer) Width() int { return f.width }

// Height returns the framebuffer height in pixels.
func (f *Framebuffer) Height() int { return f.height }

// Bytes returns the packed page data. The slice aliases the framebuffer.
func (f *Framebuffer) Bytes() []byte { return f.buf }

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Flush sends the current contents to p.
func (f *Framebuffer) Flush(p Panel) error {
	return p.Flush(f)
}

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	if !f.inBounds(x, y) {
		return false
	}
	return f.buf[x+(y/8)*f.width]&(1<<uint(y%8)) != 0
}

// Lit returns all lit pixels in row-major order.
func (f *Framebuffer) Lit() []image.Point {
	var out []image.Point
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.Pixel(x, y) {
				out = append(out, image.Pt(x, y))
			}
		}
	}
	return out
}

func (f *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

func (f *Framebuffer) set(x, y int, on bool) {
	if !f.inBounds(x, y) {
		return
	}
	idx := x + (y/8)*f.width
	bit := byte(1 << uint(y%8))
	if on {
		f.buf[idx] |= bit
	} else {
		f.buf[idx] &^= bit
	}
}

// SetPixel lights a single pixel.
func (f *Framebuffer) SetPixel(p image.Point) error {
	f.set(p.X, p.Y, true)
	return nil
}

// DrawLine draws a one pixel wide line between two points, both inclusive.
func (f *Framebuffer) DrawLine(from, to image.Point) error {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		f.set(x, y, true)
		if x == to.X && y == to.Y {
			return nil
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawRect draws the outline of the rectangle spanned by two corners, both inclusive.
func (f *Framebuffer) DrawRect(topLeft, bottomRight image.Point) error {
	tr := image.Pt(bottomRight.X, topLeft.Y)
	bl := image.Pt(topLeft.X, bottomRight.Y)
	for _, seg := range [][2]image.Point{
		{topLeft, tr},
		{tr, bottomRight},
		{bottomRight, bl},
		{bl, topLeft},
	} {
		if err := f.DrawLine(seg[0], seg[1]); err != nil {
			return err
		}
	}
	return nil
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (f *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }

// At implements image.Image. Lit pixels are white.
func (f *Framebuffer) At(x, y int) color.Color {
	if f.Pixel(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: 0}
}

// Set implements draw.Image. Colors at or above half luminance light the pixel.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	g := color.GrayModel.Convert(c).(color.Gray)
	f.set(x, y, g.Y >= 0x80)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
