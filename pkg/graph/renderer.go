package graph

import (
	"fmt"
	"image"
	"math"

	"github.com/danpilch/oledmon/pkg/history"
)

// Surface is the minimal set of drawing primitives the renderer needs.
// Coordinates are inclusive pixel positions.
type Surface interface {
	SetPixel(p image.Point) error
	DrawLine(from, to image.Point) error
	DrawRect(topLeft, bottomRight image.Point) error
}

// Renderer draws a sample window as an area chart. It holds no state between
// calls; every Render emits the full chart.
type Renderer struct {
	geometry Geometry
	capacity int
}

// NewRenderer validates the geometry against the capacity of the window it
// will be fed. A mismatch is a configuration error and is reported here, not
// at render time.
func NewRenderer(g Geometry, capacity int) (*Renderer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	return &Renderer{geometry: g, capacity: capacity}, nil
}

// Geometry returns the chart geometry.
func (r *Renderer) Geometry() Geometry {
	return r.geometry
}

// Point maps the sample at position index to its pixel position. A sample of
// 0 lands on the bottom edge and 1 on the top edge; the resulting y is
// clamped to the chart rectangle.
func (r *Renderer) Point(index int, sample float64) image.Point {
	g := r.geometry
	y := g.BottomRight.Y - int(math.Round(float64(g.Height())*sample))
	if y < g.TopLeft.Y {
		y = g.TopLeft.Y
	}
	if y > g.BottomRight.Y {
		y = g.BottomRight.Y
	}
	return image.Pt(g.TopLeft.X+g.Step*index, y)
}

// Render draws the frame, the sample polyline and the fill dots onto s.
// It neither clears nor flushes the surface.
func (r *Renderer) Render(s Surface, w history.Reader) error {
	if w.Len() != r.capacity {
		return fmt.Errorf("%w: renderer configured for %d samples, got %d",
			ErrCapacityMismatch, r.capacity, w.Len())
	}

	g := r.geometry
	if err := s.DrawRect(g.TopLeft, g.BottomRight); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}

	var prev image.Point
	for index := 0; index < g.PlottedPoints(); index++ {
		cur := r.Point(index, w.At(index))
		if index == 0 {
			prev = cur
		}

		for row := g.TopLeft.Y; row < g.BottomRight.Y; row += g.Step {
			if row > cur.Y {
				if err := s.SetPixel(image.Pt(cur.X, row)); err != nil {
					return fmt.Errorf("draw fill at sample %d: %w", index, err)
				}
			}
		}

		if err := s.DrawLine(prev, cur); err != nil {
			return fmt.Errorf("draw segment to sample %d: %w", index, err)
		}
		prev = cur
	}
	return nil
}
