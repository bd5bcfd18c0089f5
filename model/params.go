package model

// AnyNode asks the scheduler to derive the numa node from the calling thread.
const AnyNode = -1

// Params carries the caller supplied scheduling hints for a request stream.
type Params struct {
	// NumaID is the preferred numa node, AnyNode to use the caller's locality.
	NumaID int `json:"numaId" yaml:"numaId"`
	// Type is the task type, smaller than the scheduler's type count.
	Type int `json:"type" yaml:"type"`
	// Path is the preferred execution path.
	Path PathKind `json:"path" yaml:"path"`
}

// NewParams returns params for the given type with no numa preference on the
// hardware path.
func NewParams(taskType int) *Params {
	return &Params{NumaID: AnyNode, Type: taskType, Path: PathHardware}
}
