package numa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeList(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    []int
		expectErr   bool
	}{
		{description: "single node", input: "0\n", expected: []int{0}},
		{description: "range", input: "0-3", expected: []int{0, 1, 2, 3}},
		{description: "mixed", input: "0-1,4,6-7", expected: []int{0, 1, 4, 6, 7}},
		{description: "trailing separator", input: "2,", expectErr: true},
		{description: "trailing separator after range", input: "0-3,", expectErr: true},
		{description: "leading separator", input: ",1", expectErr: true},
		{description: "double separator", input: "0,,1", expectErr: true},
		{description: "empty", input: "", expected: nil},
		{description: "reversed range", input: "3-1", expectErr: true},
		{description: "garbage", input: "0;1", expectErr: true},
		{description: "dangling range", input: "1-", expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := ParseNodeList([]byte(testCase.input))
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expected, actual, testCase.description)
	}
}

func TestLocalityMap_Rebuild(t *testing.T) {
	topology := &Static{
		Nodes: 4,
		Distances: [][]int{
			{10, 21, 31, 21},
			{21, 10, 21, 31},
			{31, 21, 10, 21},
			{21, 31, 21, 10},
		},
	}
	provisioned := map[int]bool{1: true, 3: true}
	m := NewLocalityMap(4)
	assert.Equal(t, []int{-1, -1, -1, -1}, m.Snapshot())

	m.Rebuild(func(node int) bool { return provisioned[node] }, topology.Distance)
	// node 0 ties between 1 and 3 at distance 21: first found wins
	// node 2 ties between 1 and 3 at distance 21: first found wins
	assert.Equal(t, []int{1, 1, 1, 3}, m.Snapshot())
	assert.Equal(t, 3, m.Nearest(3))
	assert.Equal(t, -1, m.Nearest(4))
	assert.Equal(t, -1, m.Nearest(-1))
}

func TestLocalityMap_NothingProvisioned(t *testing.T) {
	m := NewLocalityMap(2)
	m.Rebuild(func(int) bool { return false }, defaultDistance)
	assert.Equal(t, []int{-1, -1}, m.Snapshot())
}

func TestStatic(t *testing.T) {
	topology := NewStatic(2)
	assert.Equal(t, 2, topology.MaxNodes())
	assert.Equal(t, LocalDistance, topology.Distance(1, 1))
	assert.Equal(t, RemoteDistance, topology.Distance(0, 1))
	node, err := topology.CurrentNode()
	assert.NoError(t, err)
	assert.Equal(t, 0, node)

	topology.Current = 5
	_, err = topology.CurrentNode()
	assert.Error(t, err)
}

func TestSysfs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "online"), []byte("0-1\n"), 0o644))
	for node, distance := range []string{"10 20\n", "20 10\n"} {
		dir := filepath.Join(root, "node"+string(rune('0'+node)))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "distance"), []byte(distance), 0o644))
	}
	topology := &Sysfs{Root: root}
	assert.Equal(t, 2, topology.MaxNodes())
	assert.Equal(t, 20, topology.Distance(0, 1))
	assert.Equal(t, 10, topology.Distance(1, 1))
	assert.Equal(t, RemoteDistance, topology.Distance(0, 7))
}

func TestSysfs_Missing(t *testing.T) {
	topology := &Sysfs{Root: filepath.Join(t.TempDir(), "absent")}
	assert.Equal(t, 1, topology.MaxNodes())
	assert.Equal(t, LocalDistance, topology.Distance(0, 0))
}
