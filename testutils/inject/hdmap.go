package inject

import (
	"github.com/golang/geo/r2"

	"go.viam.com/openspace/hdmap"
)

// Map is an injected hdmap.Map.
type Map struct {
	hdmap.Map
	NearestLaneWithHeadingFunc func(p r2.Point, distance, heading, maxHeadingDiff float64) (hdmap.Lane, float64, float64, error)
	LaneByIDFunc               func(id string) (hdmap.Lane, error)
	ParkingSpaceByIDFunc       func(id string) (*hdmap.ParkingSpace, error)
	BuildPathFunc              func(segments []hdmap.LaneSegment) (hdmap.Path, error)
}

// NearestLaneWithHeading calls the injected NearestLaneWithHeading or the real version.
func (m *Map) NearestLaneWithHeading(
	p r2.Point, distance, heading, maxHeadingDiff float64,
) (hdmap.Lane, float64, float64, error) {
	if m.NearestLaneWithHeadingFunc == nil {
		return m.Map.NearestLaneWithHeading(p, distance, heading, maxHeadingDiff)
	}
	return m.NearestLaneWithHeadingFunc(p, distance, heading, maxHeadingDiff)
}

// LaneByID calls the injected LaneByID or the real version.
func (m *Map) LaneByID(id string) (hdmap.Lane, error) {
	if m.LaneByIDFunc == nil {
		return m.Map.LaneByID(id)
	}
	return m.LaneByIDFunc(id)
}

// ParkingSpaceByID calls the injected ParkingSpaceByID or the real version.
func (m *Map) ParkingSpaceByID(id string) (*hdmap.ParkingSpace, error) {
	if m.ParkingSpaceByIDFunc == nil {
		return m.Map.ParkingSpaceByID(id)
	}
	return m.ParkingSpaceByIDFunc(id)
}

// BuildPath calls the injected BuildPath or the real version.
func (m *Map) BuildPath(segments []hdmap.LaneSegment) (hdmap.Path, error) {
	if m.BuildPathFunc == nil {
		return m.Map.BuildPath(segments)
	}
	return m.BuildPathFunc(segments)
}

// Path is an injected hdmap.Path.
type Path struct {
	hdmap.Path
	ProjectionFunc     func(p r2.Point) (float64, float64, error)
	NearestPointFunc   func(p r2.Point) (float64, float64, error)
	SmoothPointFunc    func(s float64) hdmap.PathPoint
	RoadLeftWidthFunc  func(s float64) float64
	RoadRightWidthFunc func(s float64) float64
}

// Projection calls the injected Projection or the real version.
func (p *Path) Projection(pt r2.Point) (float64, float64, error) {
	if p.ProjectionFunc == nil {
		return p.Path.Projection(pt)
	}
	return p.ProjectionFunc(pt)
}

// NearestPoint calls the injected NearestPoint or the real version.
func (p *Path) NearestPoint(pt r2.Point) (float64, float64, error) {
	if p.NearestPointFunc == nil {
		return p.Path.NearestPoint(pt)
	}
	return p.NearestPointFunc(pt)
}

// SmoothPoint calls the injected SmoothPoint or the real version.
func (p *Path) SmoothPoint(s float64) hdmap.PathPoint {
	if p.SmoothPointFunc == nil {
		return p.Path.SmoothPoint(s)
	}
	return p.SmoothPointFunc(s)
}

// RoadLeftWidth calls the injected RoadLeftWidth or the real version.
func (p *Path) RoadLeftWidth(s float64) float64 {
	if p.RoadLeftWidthFunc == nil {
		return p.Path.RoadLeftWidth(s)
	}
	return p.RoadLeftWidthFunc(s)
}

// RoadRightWidth calls the injected RoadRightWidth or the real version.
func (p *Path) RoadRightWidth(s float64) float64 {
	if p.RoadRightWidthFunc == nil {
		return p.Path.RoadRightWidth(s)
	}
	return p.RoadRightWidthFunc(s)
}
