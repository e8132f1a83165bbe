package hdmap

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func newTestLane(t *testing.T, cfg LaneConfig) *PolylineLane {
	t.Helper()
	lane, err := NewLane(cfg)
	test.That(t, err, test.ShouldBeNil)
	return lane
}

func TestLaneConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  LaneConfig
		err  string
	}{
		{"missing id", LaneConfig{Centerline: []r2.Point{{}, {X: 1}}}, "id is required"},
		{"short centerline", LaneConfig{ID: "a", Centerline: []r2.Point{{}}}, "at least 2"},
		{"negative width", LaneConfig{ID: "a", Centerline: []r2.Point{{}, {X: 1}}, LeftRoadWidth: -1}, "negative"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewLane(c.cfg)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, c.err)
		})
	}

	_, err := NewLane(LaneConfig{ID: "a", Centerline: []r2.Point{{X: 1}, {X: 1}}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPathProjection(t *testing.T) {
	lane := newTestLane(t, LaneConfig{
		ID:             "lane",
		Centerline:     []r2.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 40, Y: 0}},
		LeftRoadWidth:  1.8,
		RightRoadWidth: 1.8,
		ParkingSpaces:  []string{"spot"},
	})
	test.That(t, lane.Length(), test.ShouldEqual, 40)
	path, err := NewPath([]LaneSegment{NewFullLaneSegment(lane)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path.Length(), test.ShouldEqual, 40)
	test.That(t, path.ParkingSpaceOverlaps(), test.ShouldResemble, []string{"spot"})

	s, l, err := path.Projection(r2.Point{X: 10, Y: 1.8})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldAlmostEqual, 10)
	test.That(t, l, test.ShouldAlmostEqual, 1.8)

	s, l, err = path.Projection(r2.Point{X: -5, Y: -1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldAlmostEqual, -5)
	test.That(t, l, test.ShouldAlmostEqual, -1)

	s, l, err = path.NearestPoint(r2.Point{X: -5, Y: -1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldEqual, 0)
	test.That(t, l, test.ShouldAlmostEqual, -math.Hypot(5, 1))

	s, _, err = path.Projection(r2.Point{X: 45, Y: 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldAlmostEqual, 45)

	pt := path.SmoothPoint(25)
	test.That(t, pt.X, test.ShouldAlmostEqual, 25)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 0)
	test.That(t, pt.Heading, test.ShouldEqual, 0)
	test.That(t, path.SmoothPoint(100).X, test.ShouldAlmostEqual, 40)
	test.That(t, path.RoadLeftWidth(12), test.ShouldEqual, 1.8)
}

func TestPathAcrossLanes(t *testing.T) {
	first := newTestLane(t, LaneConfig{
		ID:            "first",
		Centerline:    []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		LeftRoadWidth: 2,
		Successors:    []string{"second"},
		ParkingSpaces: []string{"a"},
	})
	second := newTestLane(t, LaneConfig{
		ID:            "second",
		Centerline:    []r2.Point{{X: 10, Y: 0}, {X: 10, Y: 10}},
		LeftRoadWidth: 3,
		ParkingSpaces: []string{"a", "b"},
	})
	path, err := NewPath([]LaneSegment{NewFullLaneSegment(first), NewFullLaneSegment(second)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path.Points(), test.ShouldHaveLength, 3)
	test.That(t, path.Length(), test.ShouldAlmostEqual, 20)
	test.That(t, path.RoadLeftWidth(5), test.ShouldEqual, 2)
	test.That(t, path.RoadLeftWidth(15), test.ShouldEqual, 3)
	test.That(t, path.ParkingSpaceOverlaps(), test.ShouldResemble, []string{"a", "b"})

	pt := path.SmoothPoint(15)
	test.That(t, pt.X, test.ShouldAlmostEqual, 10)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 5)
	test.That(t, pt.Heading, test.ShouldAlmostEqual, math.Pi/2)

	partial, err := NewPath([]LaneSegment{{Lane: first, StartS: 2, EndS: 8}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, partial.Length(), test.ShouldAlmostEqual, 6)
	test.That(t, partial.SmoothPoint(0).X, test.ShouldAlmostEqual, 2)

	_, err = NewPath(nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPath([]LaneSegment{{Lane: first, StartS: 5, EndS: 5}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty")
}

func TestMemoryMap(t *testing.T) {
	first := newTestLane(t, LaneConfig{ID: "first", Centerline: []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}})
	second := newTestLane(t, LaneConfig{ID: "second", Centerline: []r2.Point{{X: 10, Y: 0}, {X: 10, Y: 10}}})
	spot := &ParkingSpace{ID: "spot", Polygon: []r2.Point{{X: 1, Y: -5}, {X: 3, Y: -5}, {X: 3, Y: -1}, {X: 1, Y: -1}}}
	m, err := NewMemoryMap([]Lane{first, second}, []*ParkingSpace{spot})
	test.That(t, err, test.ShouldBeNil)

	t.Run("nearest lane", func(t *testing.T) {
		lane, s, l, err := m.NearestLaneWithHeading(r2.Point{X: 5, Y: 1}, 3, 0.1, math.Pi/2)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lane.ID(), test.ShouldEqual, "first")
		test.That(t, s, test.ShouldAlmostEqual, 5)
		test.That(t, l, test.ShouldAlmostEqual, 1)

		lane, _, _, err = m.NearestLaneWithHeading(r2.Point{X: 9, Y: 6}, 3, math.Pi/2, 0.2)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lane.ID(), test.ShouldEqual, "second")
	})

	t.Run("heading mismatch", func(t *testing.T) {
		_, _, _, err := m.NearestLaneWithHeading(r2.Point{X: 5, Y: 1}, 3, math.Pi, math.Pi/2)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "no lane")
	})

	t.Run("too far", func(t *testing.T) {
		_, _, _, err := m.NearestLaneWithHeading(r2.Point{X: 5, Y: 50}, 10, 0, math.Pi/2)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("lookups", func(t *testing.T) {
		lane, err := m.LaneByID("second")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lane.Length(), test.ShouldEqual, 10)
		_, err = m.LaneByID("missing")
		test.That(t, err, test.ShouldNotBeNil)

		got, err := m.ParkingSpaceByID("spot")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, spot)
		_, err = m.ParkingSpaceByID("missing")
		test.That(t, err.Error(), test.ShouldContainSubstring, "not found")

		path, err := m.BuildPath([]LaneSegment{NewFullLaneSegment(first)})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, path.Length(), test.ShouldEqual, 10)
		_, err = m.BuildPath(nil)
		test.That(t, err, test.ShouldNotBeNil)
	})

	_, err = NewMemoryMap([]Lane{first, first}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate")
}
