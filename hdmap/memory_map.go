package hdmap

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/openspace/spatialmath"
	"go.viam.com/openspace/utils"
)

type laneEntry struct {
	lane   Lane
	path   Path
	bounds rtreego.Rect
}

func (e *laneEntry) Bounds() rtreego.Rect {
	return e.bounds
}

// MemoryMap is a Map held fully in memory. Lanes are indexed by the bounds of their
// centerlines.
type MemoryMap struct {
	lanes         map[string]*laneEntry
	parkingSpaces map[string]*ParkingSpace
	tree          *rtreego.Rtree
}

// NewMemoryMap builds a map out of lanes and parking spaces. Ids must be unique.
func NewMemoryMap(lanes []Lane, spaces []*ParkingSpace) (*MemoryMap, error) {
	m := &MemoryMap{
		lanes:         make(map[string]*laneEntry, len(lanes)),
		parkingSpaces: make(map[string]*ParkingSpace, len(spaces)),
		tree:          rtreego.NewTree(2, 25, 50),
	}
	for _, lane := range lanes {
		if _, ok := m.lanes[lane.ID()]; ok {
			return nil, errors.Errorf("duplicate lane %q", lane.ID())
		}
		path, err := NewPath([]LaneSegment{NewFullLaneSegment(lane)})
		if err != nil {
			return nil, errors.Wrapf(err, "lane %q", lane.ID())
		}
		bounds, err := spatialmath.RTreeRect(spatialmath.BoundingRect(lane.Centerline()), 0)
		if err != nil {
			return nil, errors.Wrapf(err, "lane %q", lane.ID())
		}
		entry := &laneEntry{lane: lane, path: path, bounds: bounds}
		m.lanes[lane.ID()] = entry
		m.tree.Insert(entry)
	}
	for _, space := range spaces {
		if _, ok := m.parkingSpaces[space.ID]; ok {
			return nil, errors.Errorf("duplicate parking space %q", space.ID)
		}
		m.parkingSpaces[space.ID] = space
	}
	return m, nil
}

// NearestLaneWithHeading returns the closest lane to p, within distance, whose heading at the
// projection of p is within maxHeadingDiff of heading.
func (m *MemoryMap) NearestLaneWithHeading(
	p r2.Point, distance, heading, maxHeadingDiff float64,
) (Lane, float64, float64, error) {
	query, err := spatialmath.RTreeRect(r2.RectFromPoints(p), distance)
	if err != nil {
		return nil, 0, 0, err
	}
	var best *laneEntry
	var bestS, bestL float64
	bestDist := math.Inf(1)
	for _, candidate := range m.tree.SearchIntersect(query) {
		entry := candidate.(*laneEntry)
		s, l, err := entry.path.NearestPoint(p)
		if err != nil {
			return nil, 0, 0, err
		}
		if math.Abs(l) > distance || math.Abs(l) >= bestDist {
			continue
		}
		if math.Abs(utils.AngleDiff(entry.path.SmoothPoint(s).Heading, heading)) > maxHeadingDiff {
			continue
		}
		best, bestS, bestL, bestDist = entry, s, l, math.Abs(l)
	}
	if best == nil {
		return nil, 0, 0, NewNoLaneNearbyError(p, distance)
	}
	return best.lane, bestS, bestL, nil
}

// LaneByID returns the lane with the given id.
func (m *MemoryMap) LaneByID(id string) (Lane, error) {
	entry, ok := m.lanes[id]
	if !ok {
		return nil, NewLaneNotFoundError(id)
	}
	return entry.lane, nil
}

// ParkingSpaceByID returns the parking space with the given id.
func (m *MemoryMap) ParkingSpaceByID(id string) (*ParkingSpace, error) {
	space, ok := m.parkingSpaces[id]
	if !ok {
		return nil, NewParkingSpaceNotFoundError(id)
	}
	return space, nil
}

// BuildPath concatenates the given lane segments into a path.
func (m *MemoryMap) BuildPath(segments []LaneSegment) (Path, error) {
	path, err := NewPath(segments)
	if err != nil {
		return nil, err
	}
	return path, nil
}
