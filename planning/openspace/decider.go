package openspace

import (
	"math"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/logging"
	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/referenceframe"
	"go.viam.com/openspace/utils"
)

// Option configures a Decider.
type Option func(*Decider)

// WithClock sets the clock used to time each cycle.
func WithClock(c clock.Clock) Option {
	return func(d *Decider) {
		d.clock = c
	}
}

// Decider computes the region of interest of a parking maneuver once per planning cycle. It
// keeps no state between cycles.
type Decider struct {
	cfg    Config
	hdmap  hdmap.Map
	logger logging.Logger
	clock  clock.Clock
}

// NewDecider validates cfg and returns a decider querying m.
func NewDecider(cfg Config, m hdmap.Map, logger logging.Logger, opts ...Option) (*Decider, error) {
	if err := cfg.Validate("open_space_roi_decider"); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, newErrorf(ConfigFailure, "a map is required")
	}
	d := &Decider{cfg: cfg, hdmap: m, logger: logger, clock: clock.New()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the decider configuration.
func (d *Decider) Config() Config {
	return d.cfg
}

// Execute runs one cycle, reusing the target pctx holds for the routed spot and caching the
// target this cycle resolves.
func (d *Decider) Execute(pctx *planning.Context, frame *planning.Frame) error {
	target, err := d.Process(frame, pctx.ResolvedTarget(frame.RoutingRequest.ParkingSpaceID))
	if err != nil {
		return err
	}
	pctx.SetResolvedTarget(target)
	return nil
}

// Process computes the ROI for frame and writes it to frame.OpenSpaceInfo. cached is the
// target resolved by an earlier cycle, or nil; it is reused when it names the routed spot.
// The returned target may be passed to the next cycle.
func (d *Decider) Process(frame *planning.Frame, cached *planning.ResolvedTarget) (planning.ResolvedTarget, error) {
	start := d.clock.Now()
	logger := d.logger.WithFields("seq", frame.SequenceNum, "spot", frame.RoutingRequest.ParkingSpaceID)

	target, path, spot, err := d.resolveTarget(frame, cached)
	if err != nil {
		return planning.ResolvedTarget{}, fail(logger, "cannot resolve target parking spot", err)
	}
	info, err := d.formulate(logger, frame, target, path, spot)
	if err != nil {
		return planning.ResolvedTarget{}, fail(logger, "cannot formulate boundary constraints", err)
	}
	frame.OpenSpaceInfo = *info

	rows, _ := info.ObstaclesA.Dims()
	logger.Debugw("open space roi computed",
		"pieces", info.ObstaclesNum,
		"edges", rows,
		"roi", info.ROIBox.Values(),
		"end_pose", info.EndPose.String(),
		"elapsed", d.clock.Since(start),
	)
	return target, nil
}

func fail(logger logging.Logger, msg string, err error) error {
	logger.Errorw(msg, "error", err)
	return errors.Wrap(err, msg)
}

func (d *Decider) resolveTarget(
	frame *planning.Frame, cached *planning.ResolvedTarget,
) (planning.ResolvedTarget, hdmap.Path, SpotCorners, error) {
	spotID := frame.RoutingRequest.ParkingSpaceID
	if spotID == "" {
		return planning.ResolvedTarget{}, nil, SpotCorners{}, newErrorf(MapQueryFailure, "routing request has no parking space id")
	}
	vehicle := frame.VehicleState

	reuse := cached != nil && cached.SpotID == spotID && cached.Lane != nil
	var lane hdmap.Lane
	if reuse {
		lane = cached.Lane
	} else {
		var err error
		lane, _, _, err = d.hdmap.NearestLaneWithHeading(
			vehicle.Point(), d.cfg.LaneSearchRadius, vehicle.Heading, d.cfg.LaneSearchHeadingTolerance)
		if err != nil {
			return planning.ResolvedTarget{}, nil, SpotCorners{}, newError(MapQueryFailure, errors.Wrap(err, "cannot find nearest lane"))
		}
	}

	path, err := d.pathToSpot(lane, spotID)
	if err != nil {
		return planning.ResolvedTarget{}, nil, SpotCorners{}, err
	}
	space, err := d.hdmap.ParkingSpaceByID(spotID)
	if err != nil {
		return planning.ResolvedTarget{}, nil, SpotCorners{}, newError(MapQueryFailure, err)
	}
	corners, err := NewSpotCorners(space)
	if err != nil {
		return planning.ResolvedTarget{}, nil, SpotCorners{}, err
	}
	if err := d.checkParkingStartRange(path, vehicle.Point(), corners); err != nil {
		return planning.ResolvedTarget{}, nil, SpotCorners{}, err
	}

	var origin referenceframe.Origin
	if reuse {
		origin = cached.Origin
	} else {
		origin, err = referenceframe.NewOriginFromSpot(corners.LeftTop, corners.RightTop)
		if err != nil {
			return planning.ResolvedTarget{}, nil, SpotCorners{}, newError(GeometryInconsistency, err)
		}
	}
	return planning.ResolvedTarget{SpotID: spotID, Lane: lane, Origin: origin}, path, corners, nil
}

// pathToSpot returns the first path, out of the lane followed by each of its successors,
// that overlaps the spot. A lane without successors is a path on its own.
func (d *Decider) pathToSpot(lane hdmap.Lane, spotID string) (hdmap.Path, error) {
	successors := lane.SuccessorIDs()
	if len(successors) == 0 {
		path, err := d.hdmap.BuildPath([]hdmap.LaneSegment{hdmap.NewFullLaneSegment(lane)})
		if err != nil {
			return nil, newError(MapQueryFailure, err)
		}
		if lo.Contains(path.ParkingSpaceOverlaps(), spotID) {
			return path, nil
		}
	}
	for _, id := range successors {
		next, err := d.hdmap.LaneByID(id)
		if err != nil {
			return nil, newError(MapQueryFailure, err)
		}
		path, err := d.hdmap.BuildPath([]hdmap.LaneSegment{hdmap.NewFullLaneSegment(lane), hdmap.NewFullLaneSegment(next)})
		if err != nil {
			return nil, newError(MapQueryFailure, err)
		}
		if lo.Contains(path.ParkingSpaceOverlaps(), spotID) {
			return path, nil
		}
	}
	return nil, newErrorf(MapQueryFailure, "parking spot %q is not on lane %q or its successors", spotID, lane.ID())
}

func (d *Decider) checkParkingStartRange(path hdmap.Path, vehicle r2.Point, corners SpotCorners) error {
	vehicleS, _, err := path.NearestPoint(vehicle)
	if err != nil {
		return newError(MapQueryFailure, err)
	}
	leftDownS, _, err := path.NearestPoint(corners.LeftDown)
	if err != nil {
		return newError(MapQueryFailure, err)
	}
	rightDownS, _, err := path.NearestPoint(corners.RightDown)
	if err != nil {
		return newError(MapQueryFailure, err)
	}
	spotS := (leftDownS + rightDownS) / 2
	if math.Abs(spotS-vehicleS) >= d.cfg.ParkingStartRange {
		return newErrorf(OutOfRangeFailure,
			"parking spot at s %.3f is too far from the vehicle at s %.3f", spotS, vehicleS)
	}
	return nil
}

func (d *Decider) formulate(
	logger logging.Logger, frame *planning.Frame, target planning.ResolvedTarget, path hdmap.Path, spot SpotCorners,
) (*planning.OpenSpaceInfo, error) {
	origin := target.Origin
	leftTopS, _, err := path.Projection(spot.LeftTop)
	if err != nil {
		return nil, newError(MapQueryFailure, err)
	}
	rightTopS, _, err := path.Projection(spot.RightTop)
	if err != nil {
		return nil, newError(MapQueryFailure, err)
	}
	centerS := (leftTopS + rightTopS) / 2
	startS := utils.Clamp(centerS-d.cfg.RoiLongitudinalRange, 0, path.Length())
	endS := utils.Clamp(centerS+d.cfg.RoiLongitudinalRange, 0, path.Length())

	boundary, err := BuildLaneBoundary(path, startS, endS, d.cfg.RoiLineSegmentMinAngle, d.cfg.RoiLineSegmentLength)
	if err != nil {
		return nil, err
	}
	stitched, err := StitchBoundary(path, spot, boundary, origin)
	if err != nil {
		return nil, err
	}
	logger.Debugw("stitched parking spot into lane boundary",
		"side", stitched.Side.String(), "average_l", stitched.AverageL, "stations", boundary.Len())

	roi := planning.NewROIBox(stitched.Bounds)
	endPose := ComputeEndPose(spot.ToLocal(origin), d.cfg.ParkingInwards, d.cfg.Vehicle, d.cfg.ParkingDepthBuffer)
	vehicle := frame.VehicleState.Point()
	if local := origin.ToLocal(vehicle); !roi.Contains(local) {
		return nil, newErrorf(OutOfRangeFailure, "vehicle at local (%.3f, %.3f) is outside the roi %v",
			local.X, local.Y, roi.Values())
	}
	if !roi.Contains(endPose.Point()) {
		return nil, newErrorf(OutOfRangeFailure, "end pose %v is outside the roi %v", endPose, roi.Values())
	}

	vertices, err := FuseSegments(stitched.Segments)
	if err != nil {
		return nil, err
	}
	if len(vertices) == 0 {
		return nil, newErrorf(GeometryInconsistency, "no boundary pieces left after fusing")
	}
	boundaryNum := len(vertices)
	obstaclesNum := boundaryNum

	if d.cfg.EnablePerceptionObstacles && frame.Obstacles != nil {
		filter := ObstacleFilter{
			Origin:            origin,
			ROI:               roi,
			Vehicle:           vehicle,
			EndPose:           origin.ToWorld(endPose.Point()),
			FilteringDistance: d.cfg.PerceptionObstacleFilteringDistance,
			Buffer:            d.cfg.PerceptionObstacleBuffer,
		}
		nearby, err := frame.Obstacles.Near(r2.RectFromPoints(filter.Vehicle, filter.EndPose), filter.FilteringDistance)
		if err != nil {
			return nil, newError(GeometryInconsistency, err)
		}
		pieces, rejected := SelectAndTransform(nearby, filter)
		for id, reason := range rejected {
			logger.Debugw("ignoring perception obstacle", "id", id, "reason", reason)
		}
		vertices = append(vertices, pieces...)
		obstaclesNum += len(pieces)
	}

	edgesNum := EdgeCounts(vertices)
	a, b, err := BuildHyperplanes(obstaclesNum, edgesNum, vertices)
	if err != nil {
		return nil, err
	}
	if d.cfg.CheckHyperplanes {
		if err := CheckHyperplanes(a, b, edgesNum, vertices); err != nil {
			return nil, err
		}
	}

	return &planning.OpenSpaceInfo{
		TargetParkingSpotID: target.SpotID,
		TargetParkingLane:   target.Lane,
		Origin:              origin,
		ROIBox:              roi,
		EndPose:             endPose,
		ObstaclesVertices:   vertices,
		ObstaclesEdgesNum:   edgesNum,
		ObstaclesNum:        obstaclesNum,
		BoundaryNum:         boundaryNum,
		ObstaclesA:          a,
		ObstaclesB:          b,
	}, nil
}
