// Package perception holds the perceived obstacles the open space planner avoids.
package perception

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/openspace/spatialmath"
)

// Obstacle is a perceived object with an oriented bounding box.
type Obstacle interface {
	ID() string
	// IsVirtual reports whether the obstacle is a planning construct rather than a physical
	// object, such as a stop wall.
	IsVirtual() bool
	PerceptionBoundingBox() spatialmath.Box2D
}

// ObstacleConfig describes an obstacle as found in a scene file.
type ObstacleConfig struct {
	ID      string   `json:"id" yaml:"id"`
	Center  r2.Point `json:"center" yaml:"center"`
	Heading float64  `json:"heading" yaml:"heading"`
	Length  float64  `json:"length" yaml:"length"`
	Width   float64  `json:"width" yaml:"width"`
	Virtual bool     `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

type obstacle struct {
	id      string
	virtual bool
	box     spatialmath.Box2D
}

// NewObstacle returns an obstacle with the given bounding box.
func NewObstacle(id string, box spatialmath.Box2D, virtual bool) Obstacle {
	return &obstacle{id: id, virtual: virtual, box: box}
}

// NewObstacleFromConfig validates cfg and builds an obstacle from it.
func NewObstacleFromConfig(cfg ObstacleConfig) (Obstacle, error) {
	if cfg.ID == "" {
		return nil, errors.New("obstacle id is required")
	}
	box, err := spatialmath.NewBox2D(cfg.Center, cfg.Heading, cfg.Length, cfg.Width)
	if err != nil {
		return nil, errors.Wrapf(err, "obstacle %q", cfg.ID)
	}
	return NewObstacle(cfg.ID, box, cfg.Virtual), nil
}

func (o *obstacle) ID() string {
	return o.id
}

func (o *obstacle) IsVirtual() bool {
	return o.virtual
}

func (o *obstacle) PerceptionBoundingBox() spatialmath.Box2D {
	return o.box
}

func (o *obstacle) String() string {
	return fmt.Sprintf("obstacle %s (virtual: %t) %s", o.id, o.virtual, o.box)
}

type indexEntry struct {
	obstacle Obstacle
	bounds   rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.bounds
}

// Index keeps obstacles in insertion order and in an R-tree over their bounding boxes.
type Index struct {
	items []Obstacle
	tree  *rtreego.Rtree
}

// NewIndex builds an index over obstacles.
func NewIndex(obstacles ...Obstacle) (*Index, error) {
	idx := &Index{tree: rtreego.NewTree(2, 25, 50)}
	for _, o := range obstacles {
		if err := idx.Add(o); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add inserts an obstacle into the index.
func (idx *Index) Add(o Obstacle) error {
	bounds, err := spatialmath.RTreeRect(o.PerceptionBoundingBox().BoundingRect(), 0)
	if err != nil {
		return errors.Wrapf(err, "obstacle %q", o.ID())
	}
	idx.items = append(idx.items, o)
	idx.tree.Insert(&indexEntry{obstacle: o, bounds: bounds})
	return nil
}

// Items returns every obstacle in insertion order.
func (idx *Index) Items() []Obstacle {
	return idx.items
}

// Len returns the number of obstacles.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Near returns the obstacles whose bounding boxes come within distance of rect, in
// insertion order.
func (idx *Index) Near(rect r2.Rect, distance float64) ([]Obstacle, error) {
	query, err := spatialmath.RTreeRect(rect, distance)
	if err != nil {
		return nil, err
	}
	hits := make(map[Obstacle]struct{})
	for _, s := range idx.tree.SearchIntersect(query) {
		hits[s.(*indexEntry).obstacle] = struct{}{}
	}
	return lo.Filter(idx.items, func(o Obstacle, _ int) bool {
		_, ok := hits[o]
		return ok
	}), nil
}
