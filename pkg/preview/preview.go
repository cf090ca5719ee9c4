// Package preview runs the dashboard interactively in a terminal with
// Bubbletea, sampling on the host and drawing the panel in half blocks.
package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/display/term"
)

// Refresher runs one dashboard cycle and exposes the resulting frame.
// *monitor.Monitor satisfies it.
type Refresher interface {
	Update(ctx context.Context) error
	Framebuffer() *display.Framebuffer
}

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	pixelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type frameMsg struct {
	frame string
	err   error
}

type tickMsg time.Time

// Model is the Bubbletea model for the preview.
type Model struct {
	ctx      context.Context
	mon      Refresher
	interval time.Duration

	frame    string
	cycles   int
	err      error
	paused   bool
	inFlight bool
}

// New creates a preview model. interval is the delay between cycles. The
// model counts the first cycle, started by Init, as in flight.
func New(ctx context.Context, mon Refresher, interval time.Duration) Model {
	return Model{ctx: ctx, mon: mon, interval: interval, inFlight: true}
}

// Init implements tea.Model. It starts the first cycle.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	ctx, mon := m.ctx, m.mon
	return func() tea.Msg {
		err := mon.Update(ctx)
		return frameMsg{frame: term.Blocks(mon.Framebuffer()), err: err}
	}
}

func (m Model) schedule() (Model, tea.Cmd) {
	if m.paused || m.inFlight {
		return m, nil
	}
	m.inFlight = true
	if m.interval <= 0 {
		return m, m.refresh()
	}
	return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
			return m.schedule()
		}
		return m, nil

	case frameMsg:
		m.inFlight = false
		m.cycles++
		m.frame = msg.frame
		m.err = msg.err
		return m.schedule()

	case tickMsg:
		if m.paused {
			m.inFlight = false
			return m, nil
		}
		return m, m.refresh()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.frame == "" {
		return "Sampling..."
	}
	var b strings.Builder
	b.WriteString(panelStyle.Render(pixelStyle.Render(m.frame)))
	b.WriteByte('\n')
	state := "running"
	if m.paused {
		state = "paused"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("cycle %d · %s · p pause · q quit", m.cycles, state)))
	if m.err != nil {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	return b.String()
}

// Cycles returns the number of completed cycles.
func (m Model) Cycles() int { return m.cycles }

// Paused reports whether sampling is paused.
func (m Model) Paused() bool { return m.paused }

// Run starts the preview and blocks until the user quits or ctx is done.
func Run(ctx context.Context, mon Refresher, interval time.Duration, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, mon, interval), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
