// Package text draws dashboard labels with bitmap fonts.
package text

import (
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Size selects one of the two label fonts.
type Size int

const (
	// Small is a 7x13 cell font used for labels and values.
	Small Size = iota
	// Large is an 8x16 cell font used for the hostname header.
	Large
)

// Face returns the font face for s.
func (s Size) Face() font.Face {
	if s == Large {
		return inconsolata.Regular8x16
	}
	return basicfont.Face7x13
}

// Draw renders s onto dst with its top-left corner at origin and returns the
// x position just after the last glyph. Runes outside printable ASCII are
// drawn as '?'.
func Draw(dst draw.Image, s string, origin image.Point, size Size) int {
	face := size.Face()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(origin.X, origin.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(sanitize(s))
	return d.Dot.X.Ceil()
}

// Width returns the rendered width of s in pixels.
func Width(s string, size Size) int {
	return font.MeasureString(size.Face(), sanitize(s)).Ceil()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
