package text

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danpilch/oledmon/pkg/display"
)

func litIn(fb *display.Framebuffer, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if fb.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestDraw_StaysInTextBox(t *testing.T) {
	fb := display.NewFramebuffer(display.DefaultWidth, display.DefaultHeight)
	end := Draw(fb, "temp:", image.Pt(0, 18), Small)

	assert.Equal(t, 5*7, end)
	box := image.Rect(0, 18, end, 18+13)
	total := len(fb.Lit())
	assert.Positive(t, total)
	assert.Equal(t, total, litIn(fb, box))
}

func TestDraw_Large(t *testing.T) {
	fb := display.NewFramebuffer(display.DefaultWidth, display.DefaultHeight)
	end := Draw(fb, "jetson", image.Pt(0, 0), Large)

	assert.Equal(t, 6*8, end)
	assert.Positive(t, litIn(fb, image.Rect(0, 0, end, 16)))
	assert.Zero(t, litIn(fb, image.Rect(0, 16, 128, 64)))
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 28, Width("0.52", Small))
	assert.Equal(t, 16, Width("ab", Large))
	assert.Equal(t, Width("4?C", Small), Width("4°C", Small))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "45.0?C", sanitize("45.0°C"))
	assert.Equal(t, "a?b", sanitize("a\nb"))
}
