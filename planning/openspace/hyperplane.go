package openspace

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

const hyperplaneEpsilon = 1e-5

// EdgeCounts returns the number of edges of every piece.
func EdgeCounts(vertices [][]r2.Point) []int {
	return lo.Map(vertices, func(piece []r2.Point, _ int) int { return len(piece) - 1 })
}

// BuildHyperplanes turns every piece's edges into halfplanes a·p > b, one row of A and b per
// edge, stacked piece after piece. Each piece runs with its inside to the left of its edges,
// so the rows of a closed piece all hold for the points inside it.
func BuildHyperplanes(obstaclesNum int, edgesNum []int, vertices [][]r2.Point) (*mat.Dense, *mat.VecDense, error) {
	if obstaclesNum != len(vertices) || len(edgesNum) != len(vertices) {
		return nil, nil, newErrorf(GeometryInconsistency,
			"obstacle count %d, edge counts %d and vertex lists %d disagree", obstaclesNum, len(edgesNum), len(vertices))
	}
	for i, piece := range vertices {
		if edgesNum[i] != len(piece)-1 || edgesNum[i] < 1 {
			return nil, nil, newErrorf(GeometryInconsistency,
				"piece %d has %d vertices but %d edges", i, len(piece), edgesNum[i])
		}
	}
	total := lo.Sum(edgesNum)
	if total == 0 {
		return nil, nil, newErrorf(GeometryInconsistency, "no edges to build hyperplanes from")
	}

	a := mat.NewDense(total, 2, nil)
	b := mat.NewVecDense(total, nil)
	row := 0
	for i, piece := range vertices {
		for j := 0; j+1 < len(piece); j++ {
			normal, offset, err := edgeHalfplane(piece[j], piece[j+1])
			if err != nil {
				return nil, nil, newError(GeometryInconsistency, errors.Wrapf(err, "piece %d edge %d", i, j))
			}
			a.Set(row, 0, normal.X)
			a.Set(row, 1, normal.Y)
			b.SetVec(row, offset)
			row++
		}
	}
	return a, b, nil
}

// edgeHalfplane returns the halfplane normal·p > offset left of the directed edge v1 -> v2.
func edgeHalfplane(v1, v2 r2.Point) (r2.Point, float64, error) {
	switch {
	case math.Abs(v1.X-v2.X) < hyperplaneEpsilon:
		if v2.Y < v1.Y {
			return r2.Point{X: 1, Y: 0}, v1.X, nil
		}
		return r2.Point{X: -1, Y: 0}, -v1.X, nil
	case math.Abs(v1.Y-v2.Y) < hyperplaneEpsilon:
		if v1.X < v2.X {
			return r2.Point{X: 0, Y: 1}, v1.Y, nil
		}
		return r2.Point{X: 0, Y: -1}, -v1.Y, nil
	}

	// fit y = slope*x + intercept through both vertices
	var line mat.VecDense
	if err := line.SolveVec(
		mat.NewDense(2, 2, []float64{v1.X, 1, v2.X, 1}),
		mat.NewVecDense(2, []float64{v1.Y, v2.Y}),
	); err != nil {
		return r2.Point{}, 0, err
	}
	slope, intercept := line.AtVec(0), line.AtVec(1)
	if v1.X < v2.X {
		return r2.Point{X: -slope, Y: 1}, intercept, nil
	}
	return r2.Point{X: slope, Y: -1}, -intercept, nil
}
