package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/openspace/logging"
	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/planning/openspace"
)

func TestLoadYAML(t *testing.T) {
	scene, err := Load(filepath.Join("testdata", "right_spot.yaml"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scene.Lanes, test.ShouldHaveLength, 1)
	test.That(t, scene.Lanes[0].Centerline[1], test.ShouldResemble, r2.Point{X: 20, Y: 0})
	test.That(t, scene.ParkingSpaces[0].Polygon[0], test.ShouldResemble, r2.Point{X: 18.75, Y: -6.8})
	test.That(t, scene.Vehicle.X, test.ShouldEqual, 10)
	test.That(t, scene.Obstacles, test.ShouldHaveLength, 2)
	test.That(t, scene.Obstacles[1].Virtual, test.ShouldBeTrue)
	test.That(t, scene.Routing.ParkingSpaceID, test.ShouldEqual, "spot_7")

	cfg, err := scene.DeciderConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.RoiLongitudinalRange, test.ShouldEqual, 20)
	test.That(t, cfg.PerceptionObstacleBuffer, test.ShouldEqual, 0.2)
	test.That(t, cfg.ParkingStartRange, test.ShouldEqual, openspace.DefaultConfig().ParkingStartRange)

	frame, err := scene.Frame(3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.SequenceNum, test.ShouldEqual, 3)
	test.That(t, frame.Obstacles.Len(), test.ShouldEqual, 2)
}

func TestLoadJSON(t *testing.T) {
	scene, err := Load(filepath.Join("testdata", "left_spot.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scene.Lanes, test.ShouldHaveLength, 2)
	test.That(t, scene.Lanes[0].Successors, test.ShouldResemble, []string{"lane_2"})
	test.That(t, scene.Obstacles, test.ShouldBeEmpty)

	cfg, err := scene.DeciderConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ParkingInwards, test.ShouldBeTrue)

	m, err := scene.Map()
	test.That(t, err, test.ShouldBeNil)
	space, err := m.ParkingSpaceByID("spot_3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, space.Polygon, test.ShouldHaveLength, 4)
	_, err = m.LaneByID("lane_2")
	test.That(t, err, test.ShouldBeNil)
}

func TestSceneDrivesDecider(t *testing.T) {
	for _, name := range []string{"right_spot.yaml", "left_spot.json"} {
		t.Run(name, func(t *testing.T) {
			scene, err := Load(filepath.Join("testdata", name))
			test.That(t, err, test.ShouldBeNil)
			m, err := scene.Map()
			test.That(t, err, test.ShouldBeNil)
			cfg, err := scene.DeciderConfig()
			test.That(t, err, test.ShouldBeNil)
			frame, err := scene.Frame(1)
			test.That(t, err, test.ShouldBeNil)

			decider, err := openspace.NewDecider(*cfg, m, logging.NewTestLogger(t))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, decider.Execute(planning.NewContext(), frame), test.ShouldBeNil)

			info := frame.OpenSpaceInfo
			test.That(t, info.TargetParkingSpotID, test.ShouldEqual, scene.Routing.ParkingSpaceID)
			test.That(t, info.ROIBox.XMin, test.ShouldAlmostEqual, -18.75)
			test.That(t, info.ROIBox.XMax, test.ShouldAlmostEqual, 21.25)
			test.That(t, info.ObstaclesEdgesNum[:4], test.ShouldResemble, []int{2, 1, 2, 1})
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)

	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		test.That(t, os.WriteFile(p, []byte(content), 0o600), test.ShouldBeNil)
		return p
	}

	_, err = Load(write("scene.toml", "lanes = []"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported scene format")

	_, err = Load(write("empty.yaml", "routing: {parking_space_id: a}\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes")

	noTarget := `{"lanes": [{"id": "l", "centerline": [{"x": 0, "y": 0}, {"x": 1, "y": 0}]}]}`
	_, err = Load(write("no_target.json", noTarget))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "parking_space_id")

	badDecider := `{"lanes": [{"id": "l", "centerline": [{"x": 0, "y": 0}, {"x": 1, "y": 0}]}],
		"routing": {"parking_space_id": "a"}, "decider": {"roi_line_segment_length": 0}}`
	_, err = Load(write("bad_decider.json", badDecider))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "roi_line_segment_length")

	_, err = Load(write("broken.json", "{"))
	test.That(t, err, test.ShouldNotBeNil)
}
