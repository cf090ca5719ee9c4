// Package history provides the fixed-capacity rolling sample window that
// backs the utilization graph.
package history

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when a window is created with a
// non-positive capacity.
var ErrInvalidCapacity = errors.New("history: capacity must be positive")

// Reader is a read-only view over a chronological sample sequence.
// Index 0 is the oldest sample, Len()-1 the newest.
type Reader interface {
	At(i int) float64
	Len() int
}

// Window is a fixed-size FIFO of samples. It always holds exactly Capacity
// values; a new window is filled with 0.0. Push overwrites the oldest entry
// in place, so it runs in constant time.
type Window struct {
	buf  []float64
	head int // index of the oldest sample
}

// New creates a Window with the given capacity, pre-filled with 0.0.
func New(capacity int) (*Window, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Window{
		buf: make([]float64, capacity),
	}, nil
}

// Push drops the oldest sample and appends v as the newest.
// v is stored as given; range checking is up to the caller.
func (w *Window) Push(v float64) {
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// At returns the i-th oldest sample. It panics if i is out of range.
func (w *Window) At(i int) float64 {
	if i < 0 || i >= len(w.buf) {
		panic(fmt.Sprintf("history: index %d out of range [0, %d)", i, len(w.buf)))
	}
	return w.buf[(w.head+i)%len(w.buf)]
}

// Len returns the number of samples held, which always equals Capacity.
func (w *Window) Len() int {
	return len(w.buf)
}

// Capacity returns the fixed window size.
func (w *Window) Capacity() int {
	return len(w.buf)
}

// Latest returns the most recently pushed sample.
func (w *Window) Latest() float64 {
	return w.At(len(w.buf) - 1)
}

// Values returns a copy of the samples in chronological order (oldest first).
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.buf))
	n := copy(out, w.buf[w.head:])
	copy(out[n:], w.buf[:w.head])
	return out
}
