package openspace

import (
	"github.com/golang/geo/r2"

	"go.viam.com/openspace/spatialmath"
)

const fuseEpsilon = 1e-8

// FuseSegments merges each segment into the one before it while the two share a joint point
// and turn clockwise there, so every resulting piece bounds a convex region. Order is
// preserved and the input slice is reused. Running it again on its output changes nothing.
func FuseSegments(segments [][]r2.Point) ([][]r2.Point, error) {
	for i := 0; i < len(segments); i++ {
		if len(segments[i]) < 2 {
			return nil, newErrorf(GeometryInconsistency, "boundary segment %d has %d point(s)", i, len(segments[i]))
		}
	}
	for i := 0; i+1 < len(segments); {
		cur, next := segments[i], segments[i+1]
		joint := cur[len(cur)-1]
		if !spatialmath.PointsAlmostEqual(joint, next[0], fuseEpsilon) ||
			spatialmath.CrossProd(cur[len(cur)-2], joint, next[1]) >= 0 {
			i++
			continue
		}
		segments[i] = append(cur, next[1])
		next = next[1:]
		if len(next) < 2 {
			segments = append(segments[:i+1], segments[i+2:]...)
			continue
		}
		segments[i+1] = next
	}
	return segments, nil
}
