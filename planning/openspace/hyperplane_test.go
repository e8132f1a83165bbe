package openspace

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func rowHolds(a *mat.Dense, b *mat.VecDense, row int, p r2.Point) bool {
	return a.At(row, 0)*p.X+a.At(row, 1)*p.Y > b.AtVec(row)
}

func TestHyperplanesSquare(t *testing.T) {
	square := [][]r2.Point{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}}
	edges := EdgeCounts(square)
	test.That(t, edges, test.ShouldResemble, []int{4})

	a, b, err := BuildHyperplanes(1, edges, square)
	test.That(t, err, test.ShouldBeNil)
	rows, cols := a.Dims()
	test.That(t, rows, test.ShouldEqual, 4)
	test.That(t, cols, test.ShouldEqual, 2)
	test.That(t, b.Len(), test.ShouldEqual, 4)

	// every edge is axis aligned
	expectedA := []float64{0, 1, -1, 0, 0, -1, 1, 0}
	expectedB := []float64{0, -2, -2, 0}
	test.That(t, a.RawMatrix().Data, test.ShouldResemble, expectedA)
	test.That(t, b.RawVector().Data, test.ShouldResemble, expectedB)

	for row := 0; row < rows; row++ {
		test.That(t, rowHolds(a, b, row, r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)
	}
	test.That(t, rowHolds(a, b, 0, r2.Point{X: 1, Y: -1}), test.ShouldBeFalse)
	test.That(t, rowHolds(a, b, 0, r2.Point{X: 1, Y: 0}), test.ShouldBeFalse)
	test.That(t, CheckHyperplanes(a, b, edges, square), test.ShouldBeNil)
}

func TestHyperplanesSlanted(t *testing.T) {
	// a diamond, a triangle and an open chain
	pieces := [][]r2.Point{
		{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}},
		{{X: 5, Y: 5}, {X: 8, Y: 6}, {X: 6, Y: 9}, {X: 5, Y: 5}},
		{{X: -3, Y: 0}, {X: 0, Y: 0}, {X: 0.5, Y: -4}},
	}
	edges := EdgeCounts(pieces)
	a, b, err := BuildHyperplanes(len(pieces), edges, pieces)
	test.That(t, err, test.ShouldBeNil)
	rows, _ := a.Dims()
	test.That(t, rows, test.ShouldEqual, 4+3+2)

	for row := 0; row < 4; row++ {
		test.That(t, rowHolds(a, b, row, r2.Point{}), test.ShouldBeTrue)
	}
	test.That(t, rowHolds(a, b, 1, r2.Point{X: 2, Y: 2}), test.ShouldBeFalse)
	for row := 4; row < 7; row++ {
		test.That(t, rowHolds(a, b, row, r2.Point{X: 6.3, Y: 6.6}), test.ShouldBeTrue)
	}
	// the line through (0,0) and (0.5,-4) is y = -8x, interior to its left
	test.That(t, a.At(8, 0), test.ShouldAlmostEqual, 8)
	test.That(t, a.At(8, 1), test.ShouldAlmostEqual, 1)
	test.That(t, b.AtVec(8), test.ShouldAlmostEqual, 0)
	test.That(t, CheckHyperplanes(a, b, edges, pieces), test.ShouldBeNil)
}

func TestCheckHyperplanesCatchesReversedPiece(t *testing.T) {
	clockwise := [][]r2.Point{{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 0}}}
	edges := EdgeCounts(clockwise)
	a, b, err := BuildHyperplanes(1, edges, clockwise)
	test.That(t, err, test.ShouldBeNil)
	err = CheckHyperplanes(a, b, edges, clockwise)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "violates")
}

func TestBuildHyperplanesErrors(t *testing.T) {
	pieces := [][]r2.Point{{{X: 0, Y: 0}, {X: 1, Y: 0}}}

	_, _, err := BuildHyperplanes(2, []int{1}, pieces)
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)

	_, _, err = BuildHyperplanes(1, []int{2}, pieces)
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)

	_, _, err = BuildHyperplanes(0, nil, nil)
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)

	_, _, err = BuildHyperplanes(1, []int{0}, [][]r2.Point{{{X: 1, Y: 1}}})
	test.That(t, IsKind(err, GeometryInconsistency), test.ShouldBeTrue)
}
