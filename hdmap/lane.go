package hdmap

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/openspace/spatialmath"
)

// LaneConfig describes a lane as found in a scene file.
type LaneConfig struct {
	ID             string     `json:"id" yaml:"id"`
	Centerline     []r2.Point `json:"centerline" yaml:"centerline"`
	LeftRoadWidth  float64    `json:"left_road_width" yaml:"left_road_width"`
	RightRoadWidth float64    `json:"right_road_width" yaml:"right_road_width"`
	Successors     []string   `json:"successors,omitempty" yaml:"successors,omitempty"`
	ParkingSpaces  []string   `json:"parking_spaces,omitempty" yaml:"parking_spaces,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *LaneConfig) Validate() error {
	if cfg.ID == "" {
		return errors.New("lane id is required")
	}
	if len(cfg.Centerline) < 2 {
		return errors.Errorf("lane %q needs at least 2 centerline points, got %d", cfg.ID, len(cfg.Centerline))
	}
	if cfg.LeftRoadWidth < 0 || cfg.RightRoadWidth < 0 {
		return errors.Errorf("lane %q road widths can not be negative", cfg.ID)
	}
	return nil
}

// PolylineLane is a Lane whose centerline is a polyline with constant road widths.
type PolylineLane struct {
	id             string
	centerline     []r2.Point
	accumulatedS   []float64
	leftRoadWidth  float64
	rightRoadWidth float64
	successors     []string
	parkingSpaces  []string
}

// NewLane validates cfg and builds a lane from it.
func NewLane(cfg LaneConfig) (*PolylineLane, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	points := dedupPoints(cfg.Centerline)
	if len(points) < 2 {
		return nil, errors.Errorf("lane %q centerline collapses to a single point", cfg.ID)
	}
	return &PolylineLane{
		id:             cfg.ID,
		centerline:     points,
		accumulatedS:   accumulateS(points),
		leftRoadWidth:  cfg.LeftRoadWidth,
		rightRoadWidth: cfg.RightRoadWidth,
		successors:     append([]string(nil), cfg.Successors...),
		parkingSpaces:  append([]string(nil), cfg.ParkingSpaces...),
	}, nil
}

// ID returns the lane id.
func (l *PolylineLane) ID() string {
	return l.id
}

// Centerline returns the lane centerline points.
func (l *PolylineLane) Centerline() []r2.Point {
	return l.centerline
}

// AccumulatedS returns the arc length at every centerline point.
func (l *PolylineLane) AccumulatedS() []float64 {
	return l.accumulatedS
}

// Length returns the centerline length.
func (l *PolylineLane) Length() float64 {
	return l.accumulatedS[len(l.accumulatedS)-1]
}

// LeftRoadWidth returns the distance from the centerline to the left road edge.
func (l *PolylineLane) LeftRoadWidth(float64) float64 {
	return l.leftRoadWidth
}

// RightRoadWidth returns the distance from the centerline to the right road edge.
func (l *PolylineLane) RightRoadWidth(float64) float64 {
	return l.rightRoadWidth
}

// SuccessorIDs returns the ids of the lanes following this one.
func (l *PolylineLane) SuccessorIDs() []string {
	return l.successors
}

// ParkingSpaceIDs returns the ids of the parking spaces overlapping this lane.
func (l *PolylineLane) ParkingSpaceIDs() []string {
	return l.parkingSpaces
}

func dedupPoints(points []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && spatialmath.PointsAlmostEqual(out[len(out)-1], p, distanceEpsilon) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func accumulateS(points []r2.Point) []float64 {
	s := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		s[i] = s[i-1] + spatialmath.Distance(points[i-1], points[i])
	}
	return s
}
