package numa

import "fmt"

// LocalDistance and RemoteDistance are the defaults used when the platform
// does not publish a distance table.
const (
	LocalDistance  = 10
	RemoteDistance = 20
)

// Topology is the external locality primitive used by the scheduler.
type Topology interface {
	// MaxNodes returns the number of numa nodes the platform exposes.
	MaxNodes() int
	// Distance returns the relative access cost between two nodes.
	Distance(from, to int) int
	// CurrentNode returns the node of the calling thread.
	CurrentNode() (int, error)
}

// Static is a fixed topology, useful for tests and for hosts where the
// layout is known up front.
type Static struct {
	Nodes int
	// Distances is an optional Nodes x Nodes table; nil uses the defaults.
	Distances [][]int
	// Current is the node reported to every caller.
	Current int
}

// NewStatic returns a topology with nodes nodes, default distances and the
// caller pinned to node 0.
func NewStatic(nodes int) *Static {
	return &Static{Nodes: nodes}
}

// MaxNodes implements Topology.
func (s *Static) MaxNodes() int {
	return s.Nodes
}

// Distance implements Topology.
func (s *Static) Distance(from, to int) int {
	if from >= 0 && from < len(s.Distances) && to >= 0 && to < len(s.Distances[from]) {
		return s.Distances[from][to]
	}
	return defaultDistance(from, to)
}

// CurrentNode implements Topology.
func (s *Static) CurrentNode() (int, error) {
	if s.Current < 0 || s.Current >= s.Nodes {
		return -1, fmt.Errorf("current node %d outside of %d nodes", s.Current, s.Nodes)
	}
	return s.Current, nil
}

func defaultDistance(from, to int) int {
	if from == to {
		return LocalDistance
	}
	return RemoteDistance
}
