// Package hdmap defines the map capabilities the open space planner needs (nearest lane lookup,
// arc-length projection, smooth points and road widths along a path, parking spaces) and a
// simple in-memory implementation backed by lane centerline polylines.
package hdmap

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Lane is a single map lane with its centerline measured by arc length s.
type Lane interface {
	ID() string
	Centerline() []r2.Point
	Length() float64
	LeftRoadWidth(s float64) float64
	RightRoadWidth(s float64) float64
	SuccessorIDs() []string
	// ParkingSpaceIDs lists the parking spaces overlapping this lane.
	ParkingSpaceIDs() []string
}

// LaneSegment is the [StartS, EndS] portion of a lane.
type LaneSegment struct {
	Lane   Lane
	StartS float64
	EndS   float64
}

// NewFullLaneSegment returns a segment covering the whole lane.
func NewFullLaneSegment(lane Lane) LaneSegment {
	return LaneSegment{Lane: lane, StartS: 0, EndS: lane.Length()}
}

// ParkingSpace is a parking spot polygon. Points are ordered left-down, right-down, right-top,
// left-top when the spot is viewed with its opening upward.
type ParkingSpace struct {
	ID      string     `json:"id" yaml:"id"`
	Polygon []r2.Point `json:"polygon" yaml:"polygon"`
}

// PathPoint is a point on a path along with the path heading there.
type PathPoint struct {
	r2.Point
	Heading float64
}

// Path is a continuous reference path built from consecutive lane segments.
type Path interface {
	Length() float64
	// Projection returns the arc length and signed lateral offset (left positive) of p,
	// extrapolating past either end of the path.
	Projection(p r2.Point) (s, l float64, err error)
	// NearestPoint is like Projection but clamps s into [0, Length()].
	NearestPoint(p r2.Point) (s, l float64, err error)
	// SmoothPoint returns the point at arc length s, clamped into [0, Length()].
	SmoothPoint(s float64) PathPoint
	RoadLeftWidth(s float64) float64
	RoadRightWidth(s float64) float64
	// ParkingSpaceOverlaps lists the ids of parking spaces overlapping the path.
	ParkingSpaceOverlaps() []string
}

// Map answers the lane and parking space queries of the planner.
type Map interface {
	// NearestLaneWithHeading finds the closest lane within distance of p whose heading at the
	// projection of p differs from heading by at most maxHeadingDiff. It also returns the
	// projection of p onto that lane.
	NearestLaneWithHeading(p r2.Point, distance, heading, maxHeadingDiff float64) (lane Lane, s, l float64, err error)
	LaneByID(id string) (Lane, error)
	ParkingSpaceByID(id string) (*ParkingSpace, error)
	BuildPath(segments []LaneSegment) (Path, error)
}

// NewLaneNotFoundError is used when a lane id is unknown to the map.
func NewLaneNotFoundError(id string) error {
	return errors.Errorf("lane %q not found", id)
}

// NewParkingSpaceNotFoundError is used when a parking space id is unknown to the map.
func NewParkingSpaceNotFoundError(id string) error {
	return errors.Errorf("parking space %q not found", id)
}

// NewNoLaneNearbyError is used when no lane satisfies a nearest lane query.
func NewNoLaneNearbyError(p r2.Point, distance float64) error {
	return errors.Errorf("no lane with matching heading within %.2f of (%.3f, %.3f)", distance, p.X, p.Y)
}
