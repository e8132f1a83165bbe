package openspace

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/spatialmath"
	"go.viam.com/openspace/utils"
)

const stationEpsilon = 1e-9

// LaneBoundary is the road edges of a path sampled at a set of stations. All slices are
// indexed by station.
type LaneBoundary struct {
	Left        []r2.Point
	Right       []r2.Point
	Center      []r2.Point
	CenterS     []float64
	Headings    []float64
	LeftWidths  []float64
	RightWidths []float64
}

// Len returns the number of stations.
func (b *LaneBoundary) Len() int {
	return len(b.CenterS)
}

func (b *LaneBoundary) add(pt hdmap.PathPoint, s, leftWidth, rightWidth float64) {
	b.Center = append(b.Center, pt.Point)
	b.CenterS = append(b.CenterS, s)
	b.Headings = append(b.Headings, pt.Heading)
	b.LeftWidths = append(b.LeftWidths, leftWidth)
	b.RightWidths = append(b.RightWidths, rightWidth)
	b.Left = append(b.Left, pt.Point.Add(spatialmath.UnitFromAngle(pt.Heading+math.Pi/2).Mul(leftWidth)))
	b.Right = append(b.Right, pt.Point.Add(spatialmath.UnitFromAngle(pt.Heading-math.Pi/2).Mul(rightWidth)))
}

// BuildLaneBoundary samples path every segmentLength between startS and endS. A station is
// only recorded when the path heading there differs by at least minAngle from the last
// recorded station, so straight stretches collapse to few stations. The first and last
// stations are always recorded.
func BuildLaneBoundary(path hdmap.Path, startS, endS, minAngle, segmentLength float64) (*LaneBoundary, error) {
	if path == nil {
		return nil, newErrorf(MapQueryFailure, "no path to sample the lane boundary from")
	}
	if segmentLength <= 0 {
		return nil, newErrorf(ConfigFailure, "line segment length must be positive, got %v", segmentLength)
	}
	if endS < startS || math.IsNaN(startS) || math.IsNaN(endS) {
		return nil, newErrorf(GeometryInconsistency, "invalid lane boundary window [%v, %v]", startS, endS)
	}

	boundary := &LaneBoundary{}
	var lastHeading float64
	for index := 0; ; index++ {
		s := startS + float64(index)*segmentLength
		last := s >= endS-stationEpsilon
		if last {
			s = endS
		}
		pt := path.SmoothPoint(s)
		if index > 0 && !last && math.Abs(utils.AngleDiff(lastHeading, pt.Heading)) < minAngle {
			continue
		}
		boundary.add(pt, s, path.RoadLeftWidth(s), path.RoadRightWidth(s))
		lastHeading = pt.Heading
		if last {
			break
		}
	}
	return boundary, nil
}
