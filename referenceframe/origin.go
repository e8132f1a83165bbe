// Package referenceframe defines the parking-local coordinate frame the open space planner
// works in.
package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/openspace/spatialmath"
	"go.viam.com/openspace/utils"
)

// Origin is the translation and rotation of the parking-local frame with respect to the world.
// Local coordinates are obtained by subtracting Point and rotating by -Heading.
type Origin struct {
	Point   r2.Point
	Heading float64
}

// NewOriginFromSpot anchors the local frame at the spot's near top corner with the x axis
// running towards the far top corner, which makes the lane horizontal.
func NewOriginFromSpot(leftTop, rightTop r2.Point) (Origin, error) {
	heading := rightTop.Sub(leftTop)
	if heading.Norm() == 0 {
		return Origin{}, errors.New("parking spot top corners coincide, cannot derive an origin heading")
	}
	return Origin{Point: leftTop, Heading: spatialmath.Angle(heading)}, nil
}

// String returns a human readable string that represents the origin.
func (o Origin) String() string {
	return fmt.Sprintf("Origin | X:%.3f, Y:%.3f | Heading: %.4f", o.Point.X, o.Point.Y, o.Heading)
}

// ToLocal expresses a world point in the local frame.
func (o Origin) ToLocal(p r2.Point) r2.Point {
	return spatialmath.Rotate(p.Sub(o.Point), -o.Heading)
}

// ToWorld expresses a local point in the world frame.
func (o Origin) ToWorld(p r2.Point) r2.Point {
	return spatialmath.Rotate(p, o.Heading).Add(o.Point)
}

// ToLocalAll transforms every point into the local frame, returning a new slice.
func (o Origin) ToLocalAll(points []r2.Point) []r2.Point {
	local := make([]r2.Point, 0, len(points))
	for _, p := range points {
		local = append(local, o.ToLocal(p))
	}
	return local
}

// HeadingToLocal converts a world heading into the local frame, wrapped into [-pi, pi).
func (o Origin) HeadingToLocal(heading float64) float64 {
	return utils.NormalizeAngle(heading - o.Heading)
}
