package term

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/oledmon/pkg/display"
)

func TestBlocks(t *testing.T) {
	fb := display.NewFramebuffer(4, 4)
	require.NoError(t, fb.SetPixel(image.Pt(0, 0)))
	require.NoError(t, fb.SetPixel(image.Pt(1, 1)))
	require.NoError(t, fb.SetPixel(image.Pt(2, 0)))
	require.NoError(t, fb.SetPixel(image.Pt(2, 1)))

	lines := strings.Split(Blocks(fb), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "▀▄█ ", lines[0])
	assert.Equal(t, "    ", lines[1])
}

func TestBlocks_OddHeight(t *testing.T) {
	fb := display.NewFramebuffer(2, 3)
	require.NoError(t, fb.SetPixel(image.Pt(1, 2)))

	lines := strings.Split(Blocks(fb), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, " ▀", lines[1])
}

func TestPanel_Flush(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	require.NoError(t, p.Init(context.Background()))

	fb := display.NewFramebuffer(8, 8)
	require.NoError(t, fb.DrawRect(image.Pt(0, 0), image.Pt(7, 7)))
	require.NoError(t, p.Flush(fb))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, clearScreen+cursorHome))
	assert.Contains(t, out, "▀")
	assert.Contains(t, out, "█")
}

func TestPanel_WithoutRedraw(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, WithoutRedraw())
	require.NoError(t, p.Init(context.Background()))
	require.NoError(t, p.Flush(display.NewFramebuffer(2, 2)))

	assert.NotContains(t, buf.String(), cursorHome)
	assert.NotContains(t, buf.String(), clearScreen)
}
