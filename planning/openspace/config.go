// Package openspace computes the region of interest of an open space (parking) maneuver: the
// stitched lane and parking spot boundary, the relevant perception obstacles, the end pose and
// the halfplane constraints handed to the trajectory optimizer.
package openspace

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// VehicleParams are the vehicle dimensions the end pose depends on.
type VehicleParams struct {
	FrontEdgeToCenter float64 `json:"front_edge_to_center"`
	BackEdgeToCenter  float64 `json:"back_edge_to_center"`
}

// Config describes how to configure the ROI decider.
type Config struct {
	// RoiLongitudinalRange is how far the ROI extends along the lane on each side of the spot.
	RoiLongitudinalRange float64 `json:"roi_longitudinal_range"`
	// ParkingStartRange is how far along the lane the spot may be from the vehicle.
	ParkingStartRange  float64 `json:"parking_start_range"`
	ParkingInwards     bool    `json:"parking_inwards"`
	ParkingDepthBuffer float64 `json:"parking_depth_buffer"`
	// RoiLineSegmentMinAngle is the heading change below which lane stations are skipped.
	RoiLineSegmentMinAngle float64 `json:"roi_line_segment_min_angle"`
	RoiLineSegmentLength   float64 `json:"roi_line_segment_length"`

	PerceptionObstacleFilteringDistance float64 `json:"perception_obstacle_filtering_distance"`
	PerceptionObstacleBuffer            float64 `json:"perception_obstacle_buffer"`
	EnablePerceptionObstacles           bool    `json:"enable_perception_obstacles"`

	// CheckHyperplanes verifies every closed piece's centroid against its own halfplanes.
	CheckHyperplanes bool `json:"check_hyperplanes"`

	LaneSearchRadius           float64 `json:"lane_search_radius"`
	LaneSearchHeadingTolerance float64 `json:"lane_search_heading_tolerance"`

	Vehicle VehicleParams `json:"vehicle"`
}

// DefaultConfig returns the decider defaults.
func DefaultConfig() Config {
	return Config{
		RoiLongitudinalRange:                10,
		ParkingStartRange:                   12,
		ParkingInwards:                      false,
		ParkingDepthBuffer:                  0.1,
		RoiLineSegmentMinAngle:              0.15,
		RoiLineSegmentLength:                1.0,
		PerceptionObstacleFilteringDistance: 1000,
		PerceptionObstacleBuffer:            0,
		EnablePerceptionObstacles:           true,
		CheckHyperplanes:                    true,
		LaneSearchRadius:                    10,
		LaneSearchHeadingTolerance:          math.Pi / 2,
		Vehicle: VehicleParams{
			FrontEdgeToCenter: 3.89,
			BackEdgeToCenter:  1.043,
		},
	}
}

// DecodeConfig decodes attributes over the defaults, so absent keys keep their default.
func DecodeConfig(attributes map[string]interface{}) (*Config, error) {
	conf := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &conf})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, newError(ConfigFailure, errors.Wrap(err, "cannot decode open space roi config"))
	}
	return &conf, nil
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	nonNegative := []struct {
		field string
		value float64
	}{
		{"roi_longitudinal_range", cfg.RoiLongitudinalRange},
		{"parking_start_range", cfg.ParkingStartRange},
		{"parking_depth_buffer", cfg.ParkingDepthBuffer},
		{"roi_line_segment_min_angle", cfg.RoiLineSegmentMinAngle},
		{"perception_obstacle_filtering_distance", cfg.PerceptionObstacleFilteringDistance},
		{"perception_obstacle_buffer", cfg.PerceptionObstacleBuffer},
		{"lane_search_radius", cfg.LaneSearchRadius},
		{"lane_search_heading_tolerance", cfg.LaneSearchHeadingTolerance},
		{"vehicle.front_edge_to_center", cfg.Vehicle.FrontEdgeToCenter},
		{"vehicle.back_edge_to_center", cfg.Vehicle.BackEdgeToCenter},
	}
	for _, f := range nonNegative {
		if f.value < 0 || math.IsNaN(f.value) {
			return newError(ConfigFailure, utils.NewConfigValidationError(path,
				errors.Errorf("%s can not be negative, got %v", f.field, f.value)))
		}
	}
	if cfg.RoiLineSegmentLength <= 0 {
		return newError(ConfigFailure, utils.NewConfigValidationError(path,
			errors.Errorf("roi_line_segment_length must be positive, got %v", cfg.RoiLineSegmentLength)))
	}
	return nil
}
