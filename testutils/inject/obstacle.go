package inject

import (
	"go.viam.com/openspace/perception"
	"go.viam.com/openspace/spatialmath"
)

// Obstacle is an injected perception.Obstacle.
type Obstacle struct {
	perception.Obstacle
	IDFunc                    func() string
	IsVirtualFunc             func() bool
	PerceptionBoundingBoxFunc func() spatialmath.Box2D
}

// ID calls the injected ID or the real version.
func (o *Obstacle) ID() string {
	if o.IDFunc == nil {
		return o.Obstacle.ID()
	}
	return o.IDFunc()
}

// IsVirtual calls the injected IsVirtual or the real version.
func (o *Obstacle) IsVirtual() bool {
	if o.IsVirtualFunc == nil {
		return o.Obstacle.IsVirtual()
	}
	return o.IsVirtualFunc()
}

// PerceptionBoundingBox calls the injected PerceptionBoundingBox or the real version.
func (o *Obstacle) PerceptionBoundingBox() spatialmath.Box2D {
	if o.PerceptionBoundingBoxFunc == nil {
		return o.Obstacle.PerceptionBoundingBox()
	}
	return o.PerceptionBoundingBoxFunc()
}
