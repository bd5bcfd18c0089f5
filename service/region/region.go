package region

import "sync"

// Region is one cell of the table.  Begin and End are inclusive and only
// change during provisioning; cursor is guarded by mu.
type Region struct {
	Begin uint32
	End   uint32

	valid  bool
	mu     sync.Mutex
	cursor uint32
}

// Valid reports whether the cell was provisioned.
func (r *Region) Valid() bool {
	return r != nil && r.valid
}

// Size returns the number of contexts in the range.
func (r *Region) Size() uint32 {
	return r.End - r.Begin + 1
}

// Contains reports whether index falls inside the range.
func (r *Region) Contains(index uint32) bool {
	return index >= r.Begin && index <= r.End
}

// Next hands out the cursor and advances it, wrapping from End back to Begin.
func (r *Region) Next() uint32 {
	r.mu.Lock()
	pos := r.cursor
	if pos < r.End {
		r.cursor++
	} else {
		r.cursor = r.Begin
	}
	r.mu.Unlock()
	return pos
}

// Cursor returns the index the next call to Next will hand out.
func (r *Region) Cursor() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

func (r *Region) assign(begin, end uint32) {
	r.mu.Lock()
	r.Begin = begin
	r.End = end
	r.cursor = begin
	r.valid = true
	r.mu.Unlock()
}

func (r *Region) overlaps(begin, end uint32) bool {
	return r.valid && begin <= r.End && r.Begin <= end
}
