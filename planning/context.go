package planning

import (
	"go.viam.com/openspace/hdmap"
	"go.viam.com/openspace/referenceframe"
)

// ResolvedTarget is the lane and local frame found for a target parking spot. Once resolved,
// it is reused by later cycles for as long as the target spot does not change.
type ResolvedTarget struct {
	SpotID string
	Lane   hdmap.Lane
	Origin referenceframe.Origin
}

// Context carries resolved targets across planning cycles. It is not safe for concurrent
// use; at most one planning cycle may use it at a time.
type Context struct {
	targets map[string]ResolvedTarget
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{targets: map[string]ResolvedTarget{}}
}

// ResolvedTarget returns the cached target for spotID, or nil.
func (c *Context) ResolvedTarget(spotID string) *ResolvedTarget {
	target, ok := c.targets[spotID]
	if !ok {
		return nil
	}
	return &target
}

// SetResolvedTarget caches target under its spot id.
func (c *Context) SetResolvedTarget(target ResolvedTarget) {
	c.targets[target.SpotID] = target
}

// Clear drops every cached target, as when a new scenario starts.
func (c *Context) Clear() {
	clear(c.targets)
}
