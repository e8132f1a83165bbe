package openspace

import (
	"math"

	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/spatialmath"
	"go.viam.com/openspace/utils"
)

const headingEpsilon = 1e-8

// ComputeEndPose places the target pose inside the spot given by local corners. Parking
// inwards keeps the front clearance to the spot bottom, otherwise the rear clearance is kept
// and the vehicle faces out of the spot.
func ComputeEndPose(corners SpotCorners, inwards bool, vehicle VehicleParams, depthBuffer float64) planning.Pose {
	heading := spatialmath.Angle(corners.LeftDown.Sub(corners.LeftTop))
	x := (corners.LeftTop.X + corners.RightTop.X) / 2
	topToDown := corners.LeftTop.Y - corners.LeftDown.Y

	ratio, edgeToCenter := 0.25, vehicle.BackEdgeToCenter
	if inwards {
		ratio, edgeToCenter = 0.75, vehicle.FrontEdgeToCenter
	}

	var y float64
	if heading > headingEpsilon {
		y = corners.LeftDown.Y - (math.Max(ratio*-topToDown, edgeToCenter) + depthBuffer)
	} else {
		y = corners.LeftDown.Y + (math.Max(ratio*topToDown, edgeToCenter) + depthBuffer)
	}
	if !inwards {
		heading = utils.NormalizeAngle(heading + math.Pi)
	}
	return planning.Pose{X: x, Y: y, Heading: heading, Velocity: 0}
}
