package openspace

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/referenceframe"
)

// Both spots are 2.5m wide and 5m deep, centered at s=20 of an eastbound 40m lane whose road
// edges lie 1.8m either side of the centerline.
var (
	rightSpot = &hdmap.ParkingSpace{ID: "spot", Polygon: []r2.Point{
		{X: 18.75, Y: -6.8}, {X: 21.25, Y: -6.8}, {X: 21.25, Y: -1.8}, {X: 18.75, Y: -1.8},
	}}
	leftSpot = &hdmap.ParkingSpace{ID: "spot", Polygon: []r2.Point{
		{X: 21.25, Y: 6.8}, {X: 18.75, Y: 6.8}, {X: 18.75, Y: 1.8}, {X: 21.25, Y: 1.8},
	}}
)

func newStraightLane(t *testing.T) *hdmap.PolylineLane {
	t.Helper()
	lane, err := hdmap.NewLane(hdmap.LaneConfig{
		ID:             "lane",
		Centerline:     []r2.Point{{X: 0, Y: 0}, {X: 40, Y: 0}},
		LeftRoadWidth:  1.8,
		RightRoadWidth: 1.8,
		ParkingSpaces:  []string{"spot"},
	})
	test.That(t, err, test.ShouldBeNil)
	return lane
}

func newStraightPath(t *testing.T) *hdmap.PolylinePath {
	t.Helper()
	path, err := hdmap.NewPath([]hdmap.LaneSegment{hdmap.NewFullLaneSegment(newStraightLane(t))})
	test.That(t, err, test.ShouldBeNil)
	return path
}

func newSceneMap(t *testing.T, spot *hdmap.ParkingSpace) *hdmap.MemoryMap {
	t.Helper()
	m, err := hdmap.NewMemoryMap([]hdmap.Lane{newStraightLane(t)}, []*hdmap.ParkingSpace{spot})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func spotCornersAndOrigin(t *testing.T, spot *hdmap.ParkingSpace) (SpotCorners, referenceframe.Origin) {
	t.Helper()
	corners, err := NewSpotCorners(spot)
	test.That(t, err, test.ShouldBeNil)
	origin, err := referenceframe.NewOriginFromSpot(corners.LeftTop, corners.RightTop)
	test.That(t, err, test.ShouldBeNil)
	return corners, origin
}

func pointShouldAlmostEqual(t *testing.T, actual, expected r2.Point) {
	t.Helper()
	test.That(t, actual.X, test.ShouldAlmostEqual, expected.X, 1e-9)
	test.That(t, actual.Y, test.ShouldAlmostEqual, expected.Y, 1e-9)
}
