package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Box2D is a rectangle with a center, a heading along its length and a length and width that
// fully define it.
type Box2D struct {
	center  r2.Point
	heading float64
	length  float64
	width   float64
}

// NewBox2D instantiates a new oriented box.
func NewBox2D(center r2.Point, heading, length, width float64) (Box2D, error) {
	// Zero dimensions are allowed for degenerate obstacles such as poles.
	if length < 0 || width < 0 {
		return Box2D{}, newBadGeometryDimensionsError(length, width)
	}
	return Box2D{center: center, heading: heading, length: length, width: width}, nil
}

func newBadGeometryDimensionsError(length, width float64) error {
	return errors.Errorf("box dimensions can not be negative, got length %v width %v", length, width)
}

// String returns a human readable string that represents the box.
func (b Box2D) String() string {
	return fmt.Sprintf("Type: Box2D | Center: X:%.2f, Y:%.2f | Heading: %.3f | Dims: L:%.2f, W:%.2f",
		b.center.X, b.center.Y, b.heading, b.length, b.width)
}

// Center returns the center of the box.
func (b Box2D) Center() r2.Point {
	return b.center
}

// Heading returns the direction of the box's length axis.
func (b Box2D) Heading() float64 {
	return b.heading
}

// Length returns the extent along the heading.
func (b Box2D) Length() float64 {
	return b.length
}

// Width returns the extent perpendicular to the heading.
func (b Box2D) Width() float64 {
	return b.width
}

// LongitudinalExtend grows the length by extension, half of it on each end.
func (b Box2D) LongitudinalExtend(extension float64) Box2D {
	b.length += extension
	return b
}

// LateralExtend grows the width by extension, half of it on each side.
func (b Box2D) LateralExtend(extension float64) Box2D {
	b.width += extension
	return b
}

// Corners returns the four corners starting at front-left and proceeding clockwise:
// front-left, front-right, rear-right, rear-left.
func (b Box2D) Corners() []r2.Point {
	axis := UnitFromAngle(b.heading)
	halfLength := axis.Mul(b.length / 2)
	halfWidth := axis.Ortho().Mul(b.width / 2)
	return []r2.Point{
		b.center.Add(halfLength).Add(halfWidth),
		b.center.Add(halfLength).Sub(halfWidth),
		b.center.Sub(halfLength).Sub(halfWidth),
		b.center.Sub(halfLength).Add(halfWidth),
	}
}

// DistanceTo returns the distance from p to the box, zero when p lies inside.
func (b Box2D) DistanceTo(p r2.Point) float64 {
	local := Rotate(p.Sub(b.center), -b.heading)
	dx := math.Abs(local.X) - b.length/2
	dy := math.Abs(local.Y) - b.width/2
	if dx <= 0 {
		return math.Max(0, dy)
	}
	if dy <= 0 {
		return dx
	}
	return math.Hypot(dx, dy)
}

// BoundingRect returns the axis-aligned bounds of the box.
func (b Box2D) BoundingRect() r2.Rect {
	return BoundingRect(b.Corners())
}
