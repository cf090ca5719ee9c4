// Package graph maps a rolling sample window onto a pixel rectangle as a
// line chart with a dotted fill below the line.
package graph

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidGeometry is returned for a degenerate rectangle or a non-positive step.
	ErrInvalidGeometry = errors.New("graph: invalid geometry")

	// ErrCapacityMismatch is returned when the number of plotted points does
	// not match the capacity of the window feeding the graph.
	ErrCapacityMismatch = errors.New("graph: geometry incompatible with window capacity")
)

// Geometry describes where the chart is drawn.
type Geometry struct {
	// Step is the horizontal distance in pixels between two samples. It is
	// also the vertical spacing of the fill dots.
	Step        int
	TopLeft     image.Point
	BottomRight image.Point
}

// DefaultGeometry is the layout used on a 128x64 panel: 17 samples, five
// pixels apart, in the right-hand part of the screen.
var DefaultGeometry = Geometry{
	Step:        5,
	TopLeft:     image.Pt(42, 17),
	BottomRight: image.Pt(127, 62),
}

// DefaultCapacity is the window capacity matching DefaultGeometry.
const DefaultCapacity = 17

// PlottedPoints returns the number of samples the geometry draws.
func (g Geometry) PlottedPoints() int {
	if g.Step <= 0 {
		return 0
	}
	return (g.BottomRight.X - g.TopLeft.X) / g.Step
}

// Height returns the vertical extent of the chart in pixels.
func (g Geometry) Height() int {
	return g.BottomRight.Y - g.TopLeft.Y
}

// Validate reports whether the geometry describes a drawable chart.
func (g Geometry) Validate() error {
	if g.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidGeometry, g.Step)
	}
	if g.TopLeft.X >= g.BottomRight.X || g.TopLeft.Y >= g.BottomRight.Y {
		return fmt.Errorf("%w: top-left %v must be above and left of bottom-right %v",
			ErrInvalidGeometry, g.TopLeft, g.BottomRight)
	}
	if g.PlottedPoints() == 0 {
		return fmt.Errorf("%w: step %d wider than chart width %d",
			ErrInvalidGeometry, g.Step, g.BottomRight.X-g.TopLeft.X)
	}
	return nil
}

// CheckCapacity verifies that the geometry plots exactly capacity samples.
func (g Geometry) CheckCapacity(capacity int) error {
	if n := g.PlottedPoints(); n != capacity {
		return fmt.Errorf("%w: geometry plots %d points, window holds %d",
			ErrCapacityMismatch, n, capacity)
	}
	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("step=%d %v-%v", g.Step, g.TopLeft, g.BottomRight)
}
