package policy

import (
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/region"
)

// Key is the per caller scheduling state returned by Init.
//
// A key is not safe for concurrent use: picks update the cached contexts in
// place, so a key must not be shared between goroutines without external
// synchronization.
type Key struct {
	// Node is the numa node the key resolves against, -1 to scan all nodes.
	Node int
	// Type is the task type.
	Type int
	// Path is the preferred execution path for the hardware side.
	Path model.PathKind

	regions  [2][model.ModeCount]*region.Region
	contexts [2][model.ModeCount]uint32
}

func newKey(node, taskType int, path model.PathKind) *Key {
	ret := &Key{Node: node, Type: taskType, Path: path}
	for side := range ret.contexts {
		for mode := range ret.contexts[side] {
			ret.contexts[side][mode] = model.InvalidContext
		}
	}
	return ret
}

// Context returns the context currently held for side and mode, or
// model.InvalidContext.
func (k *Key) Context(side balancer.Side, mode model.Mode) uint32 {
	if k == nil || side > balancer.Software || !mode.Valid() {
		return model.InvalidContext
	}
	return k.contexts[side][mode]
}

// resolved reports whether both modes of side hold a context.
func (k *Key) resolved(side balancer.Side) bool {
	return k.contexts[side][model.ModeSync] != model.InvalidContext &&
		k.contexts[side][model.ModeAsync] != model.InvalidContext
}

// empty reports whether neither mode of side holds a context.
func (k *Key) empty(side balancer.Side) bool {
	return k.contexts[side][model.ModeSync] == model.InvalidContext &&
		k.contexts[side][model.ModeAsync] == model.InvalidContext
}
