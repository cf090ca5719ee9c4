package preview

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/oledmon/pkg/display"
)

type fakeMonitor struct {
	fb      *display.Framebuffer
	updates int
	err     error
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{fb: display.NewFramebuffer(8, 4)}
}

func (f *fakeMonitor) Update(context.Context) error {
	f.updates++
	f.fb.Clear()
	_ = f.fb.SetPixel(image.Pt(f.updates%8, 0))
	return f.err
}

func (f *fakeMonitor) Framebuffer() *display.Framebuffer { return f.fb }

func step(t *testing.T, m tea.Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(Model)
	require.True(t, ok)
	return pm, cmd
}

func TestModel_CycleLoop(t *testing.T) {
	mon := newFakeMonitor()
	m := New(context.Background(), mon, 0)
	assert.Equal(t, "Sampling...", m.View())

	cmd := m.Init()
	require.NotNil(t, cmd)
	m, cmd = step(t, m, cmd())
	assert.Equal(t, 1, m.Cycles())
	assert.Equal(t, 1, mon.updates)
	assert.Contains(t, m.View(), "▀")
	assert.Contains(t, m.View(), "cycle 1")

	// zero interval schedules the next refresh directly
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Equal(t, 2, m.Cycles())
}

func TestModel_IntervalUsesTick(t *testing.T) {
	mon := newFakeMonitor()
	m := New(context.Background(), mon, time.Hour)
	m, cmd := step(t, m, m.Init()())
	require.NotNil(t, cmd)

	m, cmd = step(t, m, tickMsg(time.Now()))
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Equal(t, 2, m.Cycles())
}

func TestModel_Pause(t *testing.T) {
	mon := newFakeMonitor()
	m := New(context.Background(), mon, time.Hour)
	m, _ = step(t, m, m.Init()())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, m.Paused())
	assert.Contains(t, m.View(), "paused")

	// the pending tick is swallowed while paused
	m, cmd := step(t, m, tickMsg(time.Now()))
	assert.Nil(t, cmd)

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.False(t, m.Paused())
	assert.NotNil(t, cmd)
}

func TestModel_ResumeDuringFirstCycle(t *testing.T) {
	mon := newFakeMonitor()
	m := New(context.Background(), mon, 0)
	first := m.Init()
	require.NotNil(t, first)

	pause := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}
	m, cmd := step(t, m, pause)
	assert.Nil(t, cmd)
	m, cmd = step(t, m, pause)
	assert.Nil(t, cmd, "resume must not start a cycle while the first one runs")

	// only the first cycle's completion schedules the next one
	m, cmd = step(t, m, first())
	assert.Equal(t, 1, mon.updates)
	assert.Equal(t, 1, m.Cycles())
	assert.NotNil(t, cmd)
}

func TestModel_ShowsCycleError(t *testing.T) {
	mon := newFakeMonitor()
	mon.err = errors.New("flush panel: i2c nack")
	m := New(context.Background(), mon, 0)
	m, _ = step(t, m, m.Init()())
	assert.Contains(t, m.View(), "i2c nack")
}

func TestModel_Quit(t *testing.T) {
	m := New(context.Background(), newFakeMonitor(), 0)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		_, cmd := step(t, m, key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}
