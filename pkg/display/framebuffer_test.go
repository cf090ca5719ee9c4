package display

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/oledmon/pkg/graph"
	"github.com/danpilch/oledmon/pkg/history"
)

func TestFramebuffer_InterfaceConformance(t *testing.T) {
	var _ graph.Surface = (*Framebuffer)(nil)
	var _ draw.Image = (*Framebuffer)(nil)
}

func TestFramebuffer_PageLayout(t *testing.T) {
	fb := NewFramebuffer(DefaultWidth, DefaultHeight)
	require.Len(t, fb.Bytes(), 128*8)

	require.NoError(t, fb.SetPixel(image.Pt(3, 0)))
	require.NoError(t, fb.SetPixel(image.Pt(3, 9)))

	assert.Equal(t, byte(0x01), fb.Bytes()[3])
	assert.Equal(t, byte(0x02), fb.Bytes()[128+3])
	assert.True(t, fb.Pixel(3, 9))
	assert.False(t, fb.Pixel(3, 8))
}

func TestFramebuffer_ClipsOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(16, 8)
	require.NoError(t, fb.SetPixel(image.Pt(-1, 0)))
	require.NoError(t, fb.SetPixel(image.Pt(16, 0)))
	require.NoError(t, fb.SetPixel(image.Pt(0, 8)))
	assert.Empty(t, fb.Lit())
	assert.False(t, fb.Pixel(100, 100))
}

func TestFramebuffer_Clear(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	require.NoError(t, fb.DrawRect(image.Pt(0, 0), image.Pt(15, 15)))
	require.NotEmpty(t, fb.Lit())

	fb.Clear()
	assert.Empty(t, fb.Lit())
}

func TestFramebuffer_DrawLine(t *testing.T) {
	tests := []struct {
		name     string
		from, to image.Point
		want     []image.Point
	}{
		{"point", image.Pt(2, 2), image.Pt(2, 2), []image.Point{{2, 2}}},
		{"horizontal", image.Pt(1, 0), image.Pt(4, 0), []image.Point{{1, 0}, {2, 0}, {3, 0}, {4, 0}}},
		{"vertical up", image.Pt(0, 3), image.Pt(0, 0), []image.Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}}},
		{"diagonal", image.Pt(0, 0), image.Pt(3, 3), []image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			require.NoError(t, fb.DrawLine(tt.from, tt.to))
			assert.Equal(t, tt.want, fb.Lit())
		})
	}
}

func TestFramebuffer_DrawLineIsContinuous(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	require.NoError(t, fb.DrawLine(image.Pt(5, 60), image.Pt(10, 2)))

	// A steep line lights exactly one pixel per row.
	for y := 2; y <= 60; y++ {
		n := 0
		for x := 0; x < 64; x++ {
			if fb.Pixel(x, y) {
				n++
			}
		}
		assert.Equal(t, 1, n, "row %d", y)
	}
}

func TestFramebuffer_DrawRect(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawRect(image.Pt(1, 1), image.Pt(3, 3)))

	want := []image.Point{
		{1, 1}, {2, 1}, {3, 1},
		{1, 2}, {3, 2},
		{1, 3}, {2, 3}, {3, 3},
	}
	assert.Equal(t, want, fb.Lit())
}

func TestFramebuffer_ImageAccess(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Set(1, 1, color.White)
	fb.Set(2, 2, color.Gray{Y: 0x40})

	assert.True(t, fb.Pixel(1, 1))
	assert.False(t, fb.Pixel(2, 2))
	assert.Equal(t, color.Gray{Y: 0xff}, fb.At(1, 1))
	assert.Equal(t, color.Gray{Y: 0}, fb.At(0, 0))
	assert.Equal(t, image.Rect(0, 0, 8, 8), fb.Bounds())

	fb.Set(1, 1, color.Black)
	assert.False(t, fb.Pixel(1, 1))
}

func TestFramebuffer_GraphRenderIsIdempotent(t *testing.T) {
	r, err := graph.NewRenderer(graph.DefaultGeometry, graph.DefaultCapacity)
	require.NoError(t, err)
	w, err := history.New(graph.DefaultCapacity)
	require.NoError(t, err)
	for _, v := range []float64{0.1, 0.9, 0.4, 0.4, 1, 0, 0.65} {
		w.Push(v)
	}

	fb := NewFramebuffer(DefaultWidth, DefaultHeight)
	require.NoError(t, r.Render(fb, w))
	first := append([]byte(nil), fb.Bytes()...)

	fb.Clear()
	require.NoError(t, r.Render(fb, w))
	assert.Equal(t, first, fb.Bytes())

	// Frame corners are lit.
	assert.True(t, fb.Pixel(42, 17))
	assert.True(t, fb.Pixel(127, 62))
}

type countingPanel struct{ flushes int }

func (p *countingPanel) Init(_ context.Context) error { return nil }
func (p *countingPanel) Flush(_ *Framebuffer) error    { p.flushes++; return nil }
func (p *countingPanel) Close() error                  { return nil }

func TestFramebuffer_FlushDelegatesToPanel(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	p := &countingPanel{}
	require.NoError(t, fb.Flush(p))
	assert.Equal(t, 1, p.flushes)
}

func TestDiscard(t *testing.T) {
	fb := NewFramebuffer(DefaultWidth, DefaultHeight)
	require.NoError(t, Discard.Init(context.Background()))
	assert.NoError(t, fb.Flush(Discard))
	assert.NoError(t, Discard.Close())
}
