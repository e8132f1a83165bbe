package openspace

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func cloneSegments(segments [][]r2.Point) [][]r2.Point {
	out := make([][]r2.Point, 0, len(segments))
	for _, seg := range segments {
		out = append(out, append([]r2.Point(nil), seg...))
	}
	return out
}

func TestFuseNearDuplicateJoint(t *testing.T) {
	t.Run("convex turn fuses", func(t *testing.T) {
		fused, err := FuseSegments([][]r2.Point{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 1, Y: 1e-9}, {X: 1, Y: -1}},
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, fused, test.ShouldHaveLength, 1)
		test.That(t, fused[0], test.ShouldResemble, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: -1}})
	})

	t.Run("concave turn stays apart", func(t *testing.T) {
		fused, err := FuseSegments([][]r2.Point{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 1, Y: 1e-9}, {X: 1, Y: 1}},
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, fused, test.ShouldHaveLength, 2)
	})

	t.Run("gap above epsilon stays apart", func(t *testing.T) {
		fused, err := FuseSegments([][]r2.Point{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 1, Y: 1e-6}, {X: 1, Y: -1}},
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, fused, test.ShouldHaveLength, 2)
	})

	t.Run("collinear stays apart", func(t *testing.T) {
		fused, err := FuseSegments([][]r2.Point{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 1, Y: 0}, {X: 2, Y: 0}},
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, fused, test.ShouldHaveLength, 2)
	})
}

func TestFuseChain(t *testing.T) {
	// a clockwise square traced edge by edge collapses into one piece
	fused, err := FuseSegments([][]r2.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 2}},
		{{X: 0, Y: 2}, {X: 2, Y: 2}},
		{{X: 2, Y: 2}, {X: 2, Y: 0}},
		{{X: 2, Y: 0}, {X: 0, Y: 0}},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fused, test.ShouldHaveLength, 1)
	test.That(t, fused[0], test.ShouldHaveLength, 5)
	test.That(t, fused[0][0], test.ShouldResemble, fused[0][4])
}

func TestFuseStitchedBoundary(t *testing.T) {
	path := newStraightPath(t)
	corners, origin := spotCornersAndOrigin(t, rightSpot)
	boundary, err := BuildLaneBoundary(path, 0, 40, 0.15, 1.0)
	test.That(t, err, test.ShouldBeNil)
	stitched, err := StitchBoundary(path, corners, boundary, origin)
	test.That(t, err, test.ShouldBeNil)

	fused, err := FuseSegments(stitched.Segments)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, EdgeCounts(fused), test.ShouldResemble, []int{2, 1, 2, 1})
	pointShouldAlmostEqual(t, fused[0][1], r2.Point{X: 0, Y: 0})
	pointShouldAlmostEqual(t, fused[0][2], r2.Point{X: 0, Y: -5})
	pointShouldAlmostEqual(t, fused[2][1], r2.Point{X: 2.5, Y: 0})

	again, err := FuseSegments(cloneSegments(fused))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, fused)
}

func TestFuseMalformed(t *testing.T) {
	_, err := FuseSegments([][]r2.Point{{{X: 0, Y: 0}, {X: 1, Y: 0}}, {{X: 1, Y: 0}}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)

	fused, err := FuseSegments(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fused, test.ShouldBeEmpty)
}
