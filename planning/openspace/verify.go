package openspace

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/openspace/spatialmath"
)

const minCheckedArea = 1e-9

// CheckHyperplanes verifies that the area centroid of every closed piece satisfies each of
// that piece's rows strictly. Open pieces and pieces without area are skipped.
func CheckHyperplanes(a *mat.Dense, b *mat.VecDense, edgesNum []int, vertices [][]r2.Point) error {
	rows, _ := a.Dims()
	if rows != b.Len() {
		return newErrorf(GeometryInconsistency, "A has %d rows but b has %d", rows, b.Len())
	}
	if len(edgesNum) != len(vertices) {
		return newErrorf(GeometryInconsistency, "%d edge counts for %d pieces", len(edgesNum), len(vertices))
	}
	offset := 0
	for i, piece := range vertices {
		if offset+edgesNum[i] > rows {
			return newErrorf(GeometryInconsistency, "piece %d rows exceed A", i)
		}
		centroid, ok := pieceCentroid(piece)
		if ok {
			c := []float64{centroid.X, centroid.Y}
			for r := offset; r < offset+edgesNum[i]; r++ {
				if floats.Dot(a.RawRowView(r), c) <= b.AtVec(r) {
					return newErrorf(GeometryInconsistency,
						"centroid (%.3f, %.3f) of piece %d violates row %d", centroid.X, centroid.Y, i, r)
				}
			}
		}
		offset += edgesNum[i]
	}
	return nil
}

func pieceCentroid(piece []r2.Point) (r2.Point, bool) {
	if len(piece) < 4 || !spatialmath.PointsAlmostEqual(piece[0], piece[len(piece)-1], fuseEpsilon) {
		return r2.Point{}, false
	}
	ring := make(orb.Ring, 0, len(piece))
	for _, p := range piece {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	centroid, area := planar.CentroidArea(ring)
	if math.Abs(area) < minCheckedArea {
		return r2.Point{}, false
	}
	return r2.Point{X: centroid[0], Y: centroid[1]}, true
}
