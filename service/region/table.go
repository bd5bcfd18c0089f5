package region

import (
	"fmt"

	"github.com/viant/ctxsched/model"
)

// MaxCells bounds the arena size; larger requests fail with ErrOutOfMemory.
const MaxCells = 1 << 20

type nodeState struct {
	paths [model.PathCount]bool
	any   bool
}

// Table is the [node][path][mode][type] region arena.
type Table struct {
	numaNum int
	typeNum int
	cells   []Region
	nodes   []nodeState
}

// New allocates the whole table for numaNum nodes and typeNum task types.
func New(numaNum, typeNum int) (*Table, error) {
	if numaNum <= 0 || typeNum <= 0 {
		return nil, fmt.Errorf("%w: numa nodes %d, types %d", model.ErrInvalidArgument, numaNum, typeNum)
	}
	perNode := model.PathCount * model.ModeCount * typeNum
	if typeNum > MaxCells/(model.PathCount*model.ModeCount) || numaNum > MaxCells/perNode {
		return nil, fmt.Errorf("%w: %d nodes x %d types exceeds %d cells", model.ErrOutOfMemory, numaNum, typeNum, MaxCells)
	}
	return &Table{
		numaNum: numaNum,
		typeNum: typeNum,
		cells:   make([]Region, numaNum*perNode),
		nodes:   make([]nodeState, numaNum),
	}, nil
}

// NumaNum returns the number of nodes covered.
func (t *Table) NumaNum() int { return t.numaNum }

// TypeNum returns the number of task types covered.
func (t *Table) TypeNum() int { return t.typeNum }

func (t *Table) offset(node int, path model.PathKind, mode model.Mode) int {
	return ((node*model.PathCount+int(path))*model.ModeCount + int(mode)) * t.typeNum
}

func (t *Table) inBounds(node int, mode model.Mode, taskType int, path model.PathKind) bool {
	return node >= 0 && node < t.numaNum && mode.Valid() && path.Valid() && taskType >= 0 && taskType < t.typeNum
}

// Register provisions the cell at the given coordinate with [begin, end].
// Re-registering a coordinate overwrites it; a range overlapping any other
// provisioned cell is rejected.
func (t *Table) Register(node int, mode model.Mode, taskType int, path model.PathKind, begin, end uint32) error {
	if begin > end {
		return fmt.Errorf("%w: region begin %d is larger than end %d", model.ErrInvalidArgument, begin, end)
	}
	if node < 0 || node >= t.numaNum {
		return fmt.Errorf("%w: numa id %d, numa nodes %d", model.ErrInvalidArgument, node, t.numaNum)
	}
	if taskType < 0 || taskType >= t.typeNum {
		return fmt.Errorf("%w: type %d, types %d", model.ErrInvalidArgument, taskType, t.typeNum)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %v", model.ErrInvalidArgument, mode)
	}
	if !path.Valid() {
		return fmt.Errorf("%w: path %v", model.ErrInvalidArgument, path)
	}
	target := &t.cells[t.offset(node, path, mode)+taskType]
	for i := range t.cells {
		if cell := &t.cells[i]; cell != target && cell.overlaps(begin, end) {
			return fmt.Errorf("%w: region [%d, %d] overlaps [%d, %d]", model.ErrInvalidArgument, begin, end, cell.Begin, cell.End)
		}
	}
	target.assign(begin, end)
	t.nodes[node].paths[path] = true
	t.nodes[node].any = true
	return nil
}

// Lookup returns the cell at the exact coordinate, or nil when the
// coordinate is out of bounds.  The cell may be unprovisioned.
func (t *Table) Lookup(node int, mode model.Mode, taskType int, path model.PathKind) *Region {
	if !t.inBounds(node, mode, taskType, path) {
		return nil
	}
	return &t.cells[t.offset(node, path, mode)+taskType]
}

// Resolve returns the exact cell when it is provisioned.  Otherwise nodes are
// scanned in ascending order and, within a node, paths in priority order
// (hardware, crypto, vector, software); the first provisioned cell for mode
// and taskType wins.  It returns nil when nothing matches.
func (t *Table) Resolve(node int, mode model.Mode, taskType int, path model.PathKind) *Region {
	if !mode.Valid() || taskType < 0 || taskType >= t.typeNum {
		return nil
	}
	if cell := t.Lookup(node, mode, taskType, path); cell.Valid() {
		return cell
	}
	for candidate := 0; candidate < t.numaNum; candidate++ {
		if !t.nodes[candidate].any {
			continue
		}
		for _, kind := range model.Paths {
			if cell := &t.cells[t.offset(candidate, kind, mode)+taskType]; cell.valid {
				return cell
			}
		}
	}
	return nil
}

// ResolvePath is Resolve restricted to one path: the exact cell when it is
// provisioned, otherwise the first provisioned cell for mode, taskType and
// path in ascending node order.
func (t *Table) ResolvePath(node int, mode model.Mode, taskType int, path model.PathKind) *Region {
	if !mode.Valid() || !path.Valid() || taskType < 0 || taskType >= t.typeNum {
		return nil
	}
	if cell := t.Lookup(node, mode, taskType, path); cell.Valid() {
		return cell
	}
	for candidate := 0; candidate < t.numaNum; candidate++ {
		if !t.nodes[candidate].paths[path] {
			continue
		}
		if cell := &t.cells[t.offset(candidate, path, mode)+taskType]; cell.valid {
			return cell
		}
	}
	return nil
}

// NodeValid reports whether node hosts any provisioned cell.
func (t *Table) NodeValid(node int) bool {
	return node >= 0 && node < t.numaNum && t.nodes[node].any
}

// PathValid reports whether node hosts a provisioned cell on path.
func (t *Table) PathValid(node int, path model.PathKind) bool {
	return t.NodeValid(node) && path.Valid() && t.nodes[node].paths[path]
}

// Cells returns the per-type cells of one node, path and mode.  The slice
// aliases the table; index i is task type i.
func (t *Table) Cells(node int, path model.PathKind, mode model.Mode) []Region {
	if node < 0 || node >= t.numaNum || !path.Valid() || !mode.Valid() {
		return nil
	}
	offset := t.offset(node, path, mode)
	return t.cells[offset : offset+t.typeNum]
}

// Count returns the number of provisioned cells.
func (t *Table) Count() int {
	count := 0
	for i := range t.cells {
		if t.cells[i].valid {
			count++
		}
	}
	return count
}
