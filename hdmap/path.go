package hdmap

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/openspace/spatialmath"
	"go.viam.com/openspace/utils"
)

const distanceEpsilon = 1e-9

type laneSpan struct {
	lane       Lane
	pathStartS float64
	laneStartS float64
}

// PolylinePath is a Path made of the clipped centerlines of consecutive lane segments.
type PolylinePath struct {
	points        []r2.Point
	accumulatedS  []float64
	headings      []float64
	spans         []laneSpan
	parkingSpaces []string
}

// NewPath concatenates the centerlines of segments into one path. Joints shared by consecutive
// segments appear once.
func NewPath(segments []LaneSegment) (*PolylinePath, error) {
	if len(segments) == 0 {
		return nil, errors.New("cannot build a path from zero lane segments")
	}
	var points []r2.Point
	startIndices := make([]int, 0, len(segments))
	for i, seg := range segments {
		if seg.Lane == nil {
			return nil, errors.Errorf("lane segment %d has no lane", i)
		}
		startS := utils.Clamp(seg.StartS, 0, seg.Lane.Length())
		endS := utils.Clamp(seg.EndS, 0, seg.Lane.Length())
		if endS <= startS {
			return nil, errors.Errorf("lane segment %d on lane %q is empty: [%.3f, %.3f]", i, seg.Lane.ID(), seg.StartS, seg.EndS)
		}
		clipped := clipCenterline(seg.Lane.Centerline(), startS, endS)
		if len(points) > 0 && spatialmath.PointsAlmostEqual(points[len(points)-1], clipped[0], distanceEpsilon) {
			startIndices = append(startIndices, len(points)-1)
			clipped = clipped[1:]
		} else {
			startIndices = append(startIndices, len(points))
		}
		points = append(points, clipped...)
	}
	points = dedupPoints(points)
	if len(points) < 2 {
		return nil, errors.New("path collapses to a single point")
	}

	path := &PolylinePath{
		points:       points,
		accumulatedS: accumulateS(points),
		headings:     make([]float64, 0, len(points)-1),
	}
	for i := 0; i+1 < len(points); i++ {
		path.headings = append(path.headings, spatialmath.Angle(points[i+1].Sub(points[i])))
	}
	for i, seg := range segments {
		idx := min(startIndices[i], len(path.accumulatedS)-1)
		path.spans = append(path.spans, laneSpan{
			lane:       seg.Lane,
			pathStartS: path.accumulatedS[idx],
			laneStartS: utils.Clamp(seg.StartS, 0, seg.Lane.Length()),
		})
	}
	path.parkingSpaces = lo.Uniq(lo.FlatMap(segments, func(seg LaneSegment, _ int) []string {
		return seg.Lane.ParkingSpaceIDs()
	}))
	return path, nil
}

// Length returns the total arc length of the path.
func (p *PolylinePath) Length() float64 {
	return p.accumulatedS[len(p.accumulatedS)-1]
}

// Points returns the path polyline.
func (p *PolylinePath) Points() []r2.Point {
	return p.points
}

// Projection returns the arc length and signed lateral offset of pt. Points before the start
// or past the end of the path are projected onto the extension of the first or last segment.
func (p *PolylinePath) Projection(pt r2.Point) (float64, float64, error) {
	idx, ratio := p.nearestSegment(pt)
	last := len(p.headings) - 1
	if (idx > 0 || ratio > 0) && (idx < last || ratio < 1) {
		ratio = utils.Clamp(ratio, 0, 1)
	}
	return p.projectOnSegment(pt, idx, ratio)
}

// NearestPoint returns the arc length of the closest point on the path and the signed
// distance of pt to it.
func (p *PolylinePath) NearestPoint(pt r2.Point) (float64, float64, error) {
	idx, ratio := p.nearestSegment(pt)
	ratio = utils.Clamp(ratio, 0, 1)
	s, l, err := p.projectOnSegment(pt, idx, ratio)
	if err != nil {
		return 0, 0, err
	}
	start := p.points[idx]
	nearest := start.Add(p.points[idx+1].Sub(start).Mul(ratio))
	return s, math.Copysign(spatialmath.Distance(nearest, pt), l), nil
}

// SmoothPoint returns the point and heading at arc length s, clamped onto the path.
func (p *PolylinePath) SmoothPoint(s float64) PathPoint {
	s = utils.Clamp(s, 0, p.Length())
	idx := segmentIndex(p.accumulatedS, s)
	return PathPoint{Point: pointOnSegment(p.points, p.accumulatedS, idx, s), Heading: p.headings[idx]}
}

// RoadLeftWidth returns the left road width of the lane covering s.
func (p *PolylinePath) RoadLeftWidth(s float64) float64 {
	span, laneS := p.spanAt(s)
	return span.lane.LeftRoadWidth(laneS)
}

// RoadRightWidth returns the right road width of the lane covering s.
func (p *PolylinePath) RoadRightWidth(s float64) float64 {
	span, laneS := p.spanAt(s)
	return span.lane.RightRoadWidth(laneS)
}

// ParkingSpaceOverlaps returns the ids of the parking spaces overlapping any lane of the path.
func (p *PolylinePath) ParkingSpaceOverlaps() []string {
	return p.parkingSpaces
}

func (p *PolylinePath) spanAt(s float64) (laneSpan, float64) {
	span := p.spans[0]
	for _, candidate := range p.spans[1:] {
		if candidate.pathStartS > s {
			break
		}
		span = candidate
	}
	return span, s - span.pathStartS + span.laneStartS
}

// nearestSegment returns the segment closest to pt and the unclamped position of the
// perpendicular foot along it, as a fraction of its length.
func (p *PolylinePath) nearestSegment(pt r2.Point) (int, float64) {
	bestIdx, bestRatio, bestDist := 0, 0.0, math.Inf(1)
	for i := 0; i+1 < len(p.points); i++ {
		start := p.points[i]
		dir := p.points[i+1].Sub(start)
		ratio := pt.Sub(start).Dot(dir) / dir.Dot(dir)
		foot := start.Add(dir.Mul(utils.Clamp(ratio, 0, 1)))
		if dist := spatialmath.Distance(foot, pt); dist < bestDist {
			bestIdx, bestRatio, bestDist = i, ratio, dist
		}
	}
	return bestIdx, bestRatio
}

func (p *PolylinePath) projectOnSegment(pt r2.Point, idx int, ratio float64) (float64, float64, error) {
	start := p.points[idx]
	dir := p.points[idx+1].Sub(start)
	length := dir.Norm()
	if length <= distanceEpsilon {
		return 0, 0, errors.Errorf("degenerate path segment %d", idx)
	}
	s := p.accumulatedS[idx] + ratio*length
	l := dir.Cross(pt.Sub(start)) / length
	return s, l, nil
}

func segmentIndex(accumulatedS []float64, s float64) int {
	idx := sort.Search(len(accumulatedS), func(i int) bool { return accumulatedS[i] > s }) - 1
	return max(0, min(idx, len(accumulatedS)-2))
}

func pointOnSegment(points []r2.Point, accumulatedS []float64, idx int, s float64) r2.Point {
	length := accumulatedS[idx+1] - accumulatedS[idx]
	if length <= 0 {
		return points[idx]
	}
	ratio := (s - accumulatedS[idx]) / length
	return points[idx].Add(points[idx+1].Sub(points[idx]).Mul(ratio))
}

func clipCenterline(points []r2.Point, startS, endS float64) []r2.Point {
	accumulated := accumulateS(points)
	clipped := []r2.Point{pointOnSegment(points, accumulated, segmentIndex(accumulated, startS), startS)}
	for i, s := range accumulated {
		if s > startS && s < endS {
			clipped = append(clipped, points[i])
		}
	}
	clipped = append(clipped, pointOnSegment(points, accumulated, segmentIndex(accumulated, endS), endS))
	return dedupPoints(clipped)
}
