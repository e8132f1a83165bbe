package openspace

import (
	"math"
	"slices"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/referenceframe"
	"go.viam.com/openspace/spatialmath"
)

// Side is the side of the lane a parking spot lies on.
type Side int

const (
	// SideLeft is a spot left of the lane. A spot centered on the lane counts as left.
	SideLeft Side = iota
	// SideRight is a spot right of the lane.
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// SpotCorners are the corners of a parking spot named as seen with the spot opening upward.
type SpotCorners struct {
	LeftDown  r2.Point
	RightDown r2.Point
	RightTop  r2.Point
	LeftTop   r2.Point
}

// NewSpotCorners reads the corners of a parking space polygon, ordered left-down, right-down,
// right-top, left-top.
func NewSpotCorners(space *hdmap.ParkingSpace) (SpotCorners, error) {
	if space == nil {
		return SpotCorners{}, newErrorf(MapQueryFailure, "no target parking spot")
	}
	if len(space.Polygon) < 4 {
		return SpotCorners{}, newErrorf(GeometryInconsistency,
			"parking spot %q polygon needs 4 points, got %d", space.ID, len(space.Polygon))
	}
	return SpotCorners{
		LeftDown:  space.Polygon[0],
		RightDown: space.Polygon[1],
		RightTop:  space.Polygon[2],
		LeftTop:   space.Polygon[3],
	}, nil
}

// ToLocal expresses the corners in the given frame.
func (c SpotCorners) ToLocal(origin referenceframe.Origin) SpotCorners {
	return SpotCorners{
		LeftDown:  origin.ToLocal(c.LeftDown),
		RightDown: origin.ToLocal(c.RightDown),
		RightTop:  origin.ToLocal(c.RightTop),
		LeftTop:   origin.ToLocal(c.LeftTop),
	}
}

// StitchedBoundary is the lane boundary with the parking spot cut into it, in the
// parking-local frame.
type StitchedBoundary struct {
	Side     Side
	AverageL float64
	// Polyline is the closed outline of the free space, first point repeated at the end.
	Polyline []r2.Point
	// Segments are the 2-point pieces of the outline, in traversal order.
	Segments [][]r2.Point
	Bounds   r2.Rect
}

// StitchBoundary cuts the parking spot into the sampled lane boundary. The road edge on the
// spot's side (the near edge) is pulled in to the spot's lateral offset and traversed in the
// direction of increasing local x, down into the spot and out again. The opposite (far) edge
// is traversed back. In the local frame the outline runs with the free space on its left.
func StitchBoundary(
	path hdmap.Path, spot SpotCorners, boundary *LaneBoundary, origin referenceframe.Origin,
) (*StitchedBoundary, error) {
	if boundary == nil || boundary.Len() < 2 {
		return nil, newErrorf(GeometryInconsistency, "lane boundary needs at least 2 stations")
	}
	if len(boundary.Left) != boundary.Len() || len(boundary.Right) != boundary.Len() ||
		len(boundary.Center) != boundary.Len() || len(boundary.Headings) != boundary.Len() ||
		len(boundary.LeftWidths) != boundary.Len() || len(boundary.RightWidths) != boundary.Len() {
		return nil, newErrorf(GeometryInconsistency, "lane boundary arrays differ in length")
	}
	leftTopS, leftTopL, err := path.Projection(spot.LeftTop)
	if err != nil {
		return nil, newError(MapQueryFailure, err)
	}
	rightTopS, rightTopL, err := path.Projection(spot.RightTop)
	if err != nil {
		return nil, newError(MapQueryFailure, err)
	}
	averageL := (leftTopL + rightTopL) / 2

	side := SideLeft
	if averageL < 0 {
		side = SideRight
	}

	// keys increase along the near edge traversal
	keys := slices.Clone(boundary.CenterS)
	var near, far []r2.Point
	switch side {
	case SideRight:
		near = rescaleEdge(boundary.Center, boundary.Right, boundary.RightWidths, boundary.Headings, -math.Pi/2, math.Abs(averageL))
		far = slices.Clone(boundary.Left)
		slices.Reverse(far)
	case SideLeft:
		near = rescaleEdge(boundary.Center, boundary.Left, boundary.LeftWidths, boundary.Headings, math.Pi/2, math.Abs(averageL))
		slices.Reverse(near)
		far = slices.Clone(boundary.Right)
		keys = lo.Map(keys, func(s float64, _ int) float64 { return -s })
		slices.Reverse(keys)
		leftTopS, rightTopS = -leftTopS, -rightTopS
	}
	near = origin.ToLocalAll(near)
	far = origin.ToLocalAll(far)
	corners := spot.ToLocal(origin)

	n := len(near)
	approach := max(sort.SearchFloat64s(keys, leftTopS)-1, 0)
	exit := min(sort.Search(n, func(i int) bool { return keys[i] > rightTopS }), n-1)

	segments := make([][]r2.Point, 0, 2*n+5)
	for i := 0; i < approach; i++ {
		segments = append(segments, []r2.Point{near[i], near[i+1]})
	}
	segments = append(segments,
		[]r2.Point{near[approach], corners.LeftTop},
		[]r2.Point{corners.LeftTop, corners.LeftDown},
		[]r2.Point{corners.LeftDown, corners.RightDown},
		[]r2.Point{corners.RightDown, corners.RightTop},
		[]r2.Point{corners.RightTop, near[exit]},
	)
	for i := exit; i+1 < n; i++ {
		segments = append(segments, []r2.Point{near[i], near[i+1]})
	}
	for i := 0; i+1 < len(far); i++ {
		segments = append(segments, []r2.Point{far[i], far[i+1]})
	}

	polyline := make([]r2.Point, 0, 2*n+6)
	polyline = append(polyline, near[:approach+1]...)
	polyline = append(polyline, corners.LeftTop, corners.LeftDown, corners.RightDown, corners.RightTop)
	polyline = append(polyline, near[exit:]...)
	polyline = append(polyline, far...)
	polyline = append(polyline, near[0])

	return &StitchedBoundary{
		Side:     side,
		AverageL: averageL,
		Polyline: polyline,
		Segments: segments,
		Bounds:   spatialmath.BoundingRect(polyline),
	}, nil
}

// rescaleEdge moves every edge point along its station's normal so it lies offset from the
// centerline. Stations without road width on that side use the heading normal instead.
func rescaleEdge(center, edge []r2.Point, widths, headings []float64, normal, offset float64) []r2.Point {
	scaled := make([]r2.Point, len(edge))
	for i := range edge {
		if widths[i] > stationEpsilon {
			scaled[i] = center[i].Add(edge[i].Sub(center[i]).Mul(offset / widths[i]))
			continue
		}
		scaled[i] = center[i].Add(spatialmath.UnitFromAngle(headings[i] + normal).Mul(offset))
	}
	return scaled
}
