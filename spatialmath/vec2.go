// Package spatialmath defines the planar geometry used by the parking planner: helpers on
// r2.Point and an oriented 2D box.
package spatialmath

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
)

// Rotate rotates p counter-clockwise about the origin by angle radians.
func Rotate(p r2.Point, angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	return r2.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// Angle returns the heading of p measured from the positive x axis.
func Angle(p r2.Point) float64 {
	return math.Atan2(p.Y, p.X)
}

// UnitFromAngle returns the unit vector with the given heading.
func UnitFromAngle(angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	return r2.Point{X: cos, Y: sin}
}

// CrossProd returns the z component of (end1 - start) x (end2 - start). It is negative when
// start -> end1 -> end2 turns clockwise.
func CrossProd(start, end1, end2 r2.Point) float64 {
	return end1.Sub(start).Cross(end2.Sub(start))
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}

// BoundingRect returns the smallest axis-aligned rectangle holding all points.
func BoundingRect(points []r2.Point) r2.Rect {
	return r2.RectFromPoints(points...)
}

// PointsAlmostEqual reports whether a and b are within epsilon of each other.
func PointsAlmostEqual(a, b r2.Point, epsilon float64) bool {
	return Distance(a, b) <= epsilon
}

// RTreeRect converts r, grown by pad on every side, into a 2D R-tree rectangle. Degenerate
// extents are widened slightly since the tree rejects zero lengths.
func RTreeRect(r r2.Rect, pad float64) (rtreego.Rect, error) {
	const minExtent = 1e-6
	r = r.ExpandedByMargin(pad)
	return rtreego.NewRect(
		rtreego.Point{r.X.Lo, r.Y.Lo},
		[]float64{math.Max(r.X.Length(), minExtent), math.Max(r.Y.Length(), minExtent)},
	)
}
