// Package term previews the framebuffer in a terminal using half-block
// characters, two pixel rows per text line.
package term

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/oledmon/pkg/display"
)

const (
	cursorHome  = "\033[H"
	clearScreen = "\033[2J"
)

// Panel implements display.Panel by writing frames to a terminal.
type Panel struct {
	w      io.Writer
	style  lipgloss.Style
	frame  lipgloss.Style
	redraw bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithColor sets the foreground color used for lit pixels.
func WithColor(c lipgloss.Color) Option {
	return func(p *Panel) { p.style = p.style.Foreground(c) }
}

// WithoutRedraw appends frames instead of redrawing in place.
func WithoutRedraw() Option {
	return func(p *Panel) { p.redraw = false }
}

// New creates a terminal panel writing to w.
func New(w io.Writer, opts ...Option) *Panel {
	p := &Panel{
		w:      w,
		style:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		redraw: true,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Init clears the terminal.
func (p *Panel) Init(_ context.Context) error {
	if !p.redraw {
		return nil
	}
	_, err := io.WriteString(p.w, clearScreen)
	return err
}

// Flush draws the framebuffer.
func (p *Panel) Flush(fb *display.Framebuffer) error {
	var out strings.Builder
	if p.redraw {
		out.WriteString(cursorHome)
	}
	out.WriteString(p.frame.Render(p.style.Render(Blocks(fb))))
	out.WriteByte('\n')
	if _, err := io.WriteString(p.w, out.String()); err != nil {
		return fmt.Errorf("terminal flush: %w", err)
	}
	return nil
}

// Close is a no-op.
func (p *Panel) Close() error { return nil }

// Blocks renders the framebuffer as plain text, one line per two pixel rows.
func Blocks(fb *display.Framebuffer) string {
	var b strings.Builder
	for y := 0; y < fb.Height(); y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < fb.Width(); x++ {
			top, bottom := fb.Pixel(x, y), fb.Pixel(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
	}
	return b.String()
}
