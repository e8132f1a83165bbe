package openspace

import (
	"slices"

	"github.com/golang/geo/r2"

	"go.viam.com/openspace/perception"
	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/referenceframe"
)

// ObstacleFilter decides which perception obstacles constrain the maneuver. Vehicle and
// EndPose are world positions.
type ObstacleFilter struct {
	Origin            referenceframe.Origin
	ROI               planning.ROIBox
	Vehicle           r2.Point
	EndPose           r2.Point
	FilteringDistance float64
	Buffer            float64
}

// Reject returns why o is irrelevant, or the empty string when it must be kept.
func (f ObstacleFilter) Reject(o perception.Obstacle) string {
	if o.IsVirtual() {
		return "virtual"
	}
	box := o.PerceptionBoundingBox()
	if !f.ROI.Contains(f.Origin.ToLocal(box.Center())) {
		return "outside roi"
	}
	if box.DistanceTo(f.Vehicle) > f.FilteringDistance && box.DistanceTo(f.EndPose) > f.FilteringDistance {
		return "too far"
	}
	return ""
}

// Transform inflates the bounding box of o by the buffer and returns its closed outline in the
// local frame, running counter-clockwise so the inside of the box is left of every edge.
func (f ObstacleFilter) Transform(o perception.Obstacle) []r2.Point {
	box := o.PerceptionBoundingBox().LongitudinalExtend(f.Buffer).LateralExtend(f.Buffer)
	corners := box.Corners()
	slices.Reverse(corners)
	vertices := f.Origin.ToLocalAll(corners)
	return append(vertices, vertices[0])
}

// SelectAndTransform keeps the obstacles f does not reject and returns their closed local
// outlines, in input order, along with the rejection reason of every dropped obstacle id.
func SelectAndTransform(obstacles []perception.Obstacle, f ObstacleFilter) ([][]r2.Point, map[string]string) {
	var pieces [][]r2.Point
	rejected := map[string]string{}
	for _, o := range obstacles {
		if reason := f.Reject(o); reason != "" {
			rejected[o.ID()] = reason
			continue
		}
		pieces = append(pieces, f.Transform(o))
	}
	return pieces, rejected
}
