package numa

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultSysfsRoot is where Linux publishes the numa layout.
const DefaultSysfsRoot = "/sys/devices/system/node"

// Sysfs reads the platform topology from sysfs.  A host without numa support
// is treated as a single node.
type Sysfs struct {
	Root string

	once      sync.Once
	maxNodes  int
	distances [][]int
}

// NewSysfs returns a topology reading from DefaultSysfsRoot.
func NewSysfs() *Sysfs {
	return &Sysfs{Root: DefaultSysfsRoot}
}

// MaxNodes implements Topology.
func (s *Sysfs) MaxNodes() int {
	s.once.Do(s.load)
	return s.maxNodes
}

// Distance implements Topology.
func (s *Sysfs) Distance(from, to int) int {
	s.once.Do(s.load)
	if from >= 0 && from < len(s.distances) && to >= 0 && to < len(s.distances[from]) {
		return s.distances[from][to]
	}
	return defaultDistance(from, to)
}

// CurrentNode implements Topology.
func (s *Sysfs) CurrentNode() (int, error) {
	node, err := currentNode()
	if err != nil {
		return -1, err
	}
	if limit := s.MaxNodes(); node >= limit {
		return -1, fmt.Errorf("current node %d outside of %d nodes", node, limit)
	}
	return node, nil
}

func (s *Sysfs) load() {
	s.maxNodes = 1
	data, err := os.ReadFile(filepath.Join(s.Root, "online"))
	if err != nil {
		return
	}
	nodes, err := ParseNodeList(data)
	if err != nil || len(nodes) == 0 {
		return
	}
	for _, node := range nodes {
		if node+1 > s.maxNodes {
			s.maxNodes = node + 1
		}
	}
	s.distances = make([][]int, s.maxNodes)
	for node := 0; node < s.maxNodes; node++ {
		s.distances[node] = readDistances(filepath.Join(s.Root, "node"+strconv.Itoa(node), "distance"))
	}
}

// readDistances parses a nodeN/distance file ("10 20 20 10").
func readDistances(location string) []int {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil
	}
	fields := strings.Fields(string(data))
	result := make([]int, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil
		}
		result = append(result, value)
	}
	return result
}
