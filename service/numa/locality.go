package numa

import (
	"math"
	"sync/atomic"
)

// LocalityMap maps every node to itself when it hosts contexts, otherwise to
// the nearest node that does.  Nodes with no reachable provisioned node map
// to -1.
//
// Rebuild publishes a fresh table so lookups never observe a half-built map.
type LocalityMap struct {
	nodes atomic.Pointer[[]int]
}

// NewLocalityMap returns a map over count nodes with every entry unset.
func NewLocalityMap(count int) *LocalityMap {
	ret := &LocalityMap{}
	nodes := make([]int, count)
	for i := range nodes {
		nodes[i] = -1
	}
	ret.nodes.Store(&nodes)
	return ret
}

// Rebuild recomputes the map.  valid tells whether a node hosts at least one
// provisioned region; distance is the topology metric.  Ties keep the first
// node found in ascending order.
func (m *LocalityMap) Rebuild(valid func(node int) bool, distance func(from, to int) int) {
	count := m.Len()
	nodes := make([]int, count)
	for node := 0; node < count; node++ {
		if valid(node) {
			nodes[node] = node
			continue
		}
		nearest, best := -1, math.MaxInt
		for candidate := 0; candidate < count; candidate++ {
			if !valid(candidate) {
				continue
			}
			if d := distance(node, candidate); d < best {
				nearest, best = candidate, d
			}
		}
		nodes[node] = nearest
	}
	m.nodes.Store(&nodes)
}

// Nearest returns the mapped node for node, -1 when node is unknown or no
// provisioned node exists.
func (m *LocalityMap) Nearest(node int) int {
	nodes := *m.nodes.Load()
	if node < 0 || node >= len(nodes) {
		return -1
	}
	return nodes[node]
}

// Len returns the number of nodes covered.
func (m *LocalityMap) Len() int {
	return len(*m.nodes.Load())
}

// Snapshot returns a copy of the map.
func (m *LocalityMap) Snapshot() []int {
	return append([]int(nil), *m.nodes.Load()...)
}
