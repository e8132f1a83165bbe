// Package scenario loads parking scenes (map, vehicle, obstacles, routing target and decider
// attributes) from JSON or YAML files.
package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/perception"
	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/planning/openspace"
)

// Scene is everything one open space planning cycle needs.
type Scene struct {
	Lanes         []hdmap.LaneConfig          `json:"lanes" yaml:"lanes"`
	ParkingSpaces []hdmap.ParkingSpace        `json:"parking_spaces" yaml:"parking_spaces"`
	Vehicle       planning.VehicleState       `json:"vehicle" yaml:"vehicle"`
	Obstacles     []perception.ObstacleConfig `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Routing       planning.RoutingRequest     `json:"routing" yaml:"routing"`
	// Decider holds open space roi decider attributes applied over the defaults.
	Decider map[string]interface{} `json:"decider,omitempty" yaml:"decider,omitempty"`
}

// Schema returns the JSON schema of a scene file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Scene{})
}

// Load reads a scene from a .json, .yaml or .yml file.
func Load(path string) (*Scene, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read scene")
	}
	scene, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene %q", path)
	}
	if err := scene.Validate(path); err != nil {
		return nil, err
	}
	return scene, nil
}

// Parse decodes a scene in the format named by ext.
func Parse(data []byte, ext string) (*Scene, error) {
	var scene Scene
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &scene); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &scene); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unsupported scene format %q", ext)
	}
	return &scene, nil
}

// Validate ensures all parts of the scene are valid.
func (s *Scene) Validate(path string) error {
	if len(s.Lanes) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "lanes")
	}
	if s.Routing.ParkingSpaceID == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "routing.parking_space_id")
	}
	for i := range s.Lanes {
		if err := s.Lanes[i].Validate(); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	for _, space := range s.ParkingSpaces {
		if space.ID == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "parking_spaces.id")
		}
	}
	if _, err := s.DeciderConfig(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Map builds the in-memory map of the scene.
func (s *Scene) Map() (*hdmap.MemoryMap, error) {
	lanes := make([]hdmap.Lane, 0, len(s.Lanes))
	for _, cfg := range s.Lanes {
		lane, err := hdmap.NewLane(cfg)
		if err != nil {
			return nil, err
		}
		lanes = append(lanes, lane)
	}
	spaces := lo.Map(s.ParkingSpaces, func(space hdmap.ParkingSpace, _ int) *hdmap.ParkingSpace {
		return &space
	})
	return hdmap.NewMemoryMap(lanes, spaces)
}

// Frame builds the planning frame of cycle seq.
func (s *Scene) Frame(seq uint32) (*planning.Frame, error) {
	obstacles := make([]perception.Obstacle, 0, len(s.Obstacles))
	for _, cfg := range s.Obstacles {
		o, err := perception.NewObstacleFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		obstacles = append(obstacles, o)
	}
	idx, err := perception.NewIndex(obstacles...)
	if err != nil {
		return nil, err
	}
	return planning.NewFrame(seq, s.Vehicle, idx, s.Routing), nil
}

// DeciderConfig returns the decider defaults overridden by the scene's decider attributes.
func (s *Scene) DeciderConfig() (*openspace.Config, error) {
	cfg, err := openspace.DecodeConfig(s.Decider)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate("decider"); err != nil {
		return nil, err
	}
	return cfg, nil
}
