// Package planning holds the per-cycle planning state the open space deciders read and
// annotate, and the small context carried across planning cycles.
package planning

import (
	"fmt"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/perception"
	"go.viam.com/openspace/referenceframe"
)

// VehicleState is the localized pose of the vehicle.
type VehicleState struct {
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Z       float64 `json:"z" yaml:"z"`
	Heading float64 `json:"heading" yaml:"heading"`
}

// Point returns the planar position of the vehicle.
func (v VehicleState) Point() r2.Point {
	return r2.Point{X: v.X, Y: v.Y}
}

// RoutingRequest carries the routing target of the current scenario.
type RoutingRequest struct {
	ParkingSpaceID string `json:"parking_space_id" yaml:"parking_space_id"`
}

// Pose is an end pose of the maneuver: position, heading and velocity.
type Pose struct {
	X        float64
	Y        float64
	Heading  float64
	Velocity float64
}

// Point returns the planar position of the pose.
func (p Pose) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// String returns a human readable string that represents the pose.
func (p Pose) String() string {
	return fmt.Sprintf("X:%.3f, Y:%.3f, Heading:%.4f, V:%.2f", p.X, p.Y, p.Heading, p.Velocity)
}

// ROIBox is the axis-aligned region of interest in the parking-local frame.
type ROIBox struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// NewROIBox converts a rectangle into an ROI box.
func NewROIBox(r r2.Rect) ROIBox {
	return ROIBox{XMin: r.X.Lo, XMax: r.X.Hi, YMin: r.Y.Lo, YMax: r.Y.Hi}
}

// Contains reports whether p lies inside or on the box.
func (b ROIBox) Contains(p r2.Point) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

// Values returns the box as [xmin, xmax, ymin, ymax].
func (b ROIBox) Values() [4]float64 {
	return [4]float64{b.XMin, b.XMax, b.YMin, b.YMax}
}

// OpenSpaceInfo is what the ROI decider writes for the trajectory optimizer. Everything is
// expressed in the parking-local frame given by Origin.
type OpenSpaceInfo struct {
	TargetParkingSpotID string
	TargetParkingLane   hdmap.Lane
	Origin              referenceframe.Origin
	ROIBox              ROIBox
	EndPose             Pose
	// ObstaclesVertices holds one vertex list per convex piece, boundary pieces first.
	ObstaclesVertices [][]r2.Point
	// ObstaclesEdgesNum holds the number of edges of each piece, the row count of that piece
	// in ObstaclesA and ObstaclesB.
	ObstaclesEdgesNum []int
	ObstaclesNum      int
	// BoundaryNum is how many leading pieces come from the lane and spot boundary.
	BoundaryNum int
	ObstaclesA        *mat.Dense
	ObstaclesB        *mat.VecDense
}

// Frame is the state of one planning cycle.
type Frame struct {
	SequenceNum    uint32
	VehicleState   VehicleState
	Obstacles      *perception.Index
	RoutingRequest RoutingRequest
	OpenSpaceInfo  OpenSpaceInfo
}

// LocalVehiclePose returns the vehicle pose in the parking-local frame of OpenSpaceInfo.
func (f *Frame) LocalVehiclePose() Pose {
	origin := f.OpenSpaceInfo.Origin
	p := origin.ToLocal(f.VehicleState.Point())
	return Pose{X: p.X, Y: p.Y, Heading: origin.HeadingToLocal(f.VehicleState.Heading)}
}

// NewFrame returns a frame for one planning cycle.
func NewFrame(seq uint32, vehicle VehicleState, obstacles *perception.Index, routing RoutingRequest) *Frame {
	return &Frame{SequenceNum: seq, VehicleState: vehicle, Obstacles: obstacles, RoutingRequest: routing}
}
