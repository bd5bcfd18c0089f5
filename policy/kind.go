package policy

import (
	"fmt"
	"strings"

	"github.com/viant/ctxsched/model"
)

// Kind identifies a scheduling policy.
type Kind uint8

const (
	// RoundRobin cycles through the contexts of the key's region.
	RoundRobin Kind = iota
	// None always dispatches to context 0.
	None
	// Single dispatches sync work to context 0 and async work to context 1.
	Single
	// Loop splits work between hardware and crypto-engine contexts.
	Loop
	// LoopMemo is Loop with contexts resolved on first use and cached in the key.
	LoopMemo
)

var kindNames = map[Kind]string{
	RoundRobin: "rr",
	None:       "none",
	Single:     "single",
	Loop:       "loop",
	LoopMemo:   "loop-memo",
}

// Valid reports whether k is a known policy.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Name returns the display name reported by the scheduler.
func (k Kind) Name() string {
	switch k {
	case RoundRobin:
		return "RR scheduler"
	case None:
		return "None scheduler"
	case Single:
		return "Single scheduler"
	case Loop:
		return "Loop scheduler"
	case LoopMemo:
		return "Loop memo scheduler"
	}
	return k.String()
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: policy %d", model.ErrInvalidArgument, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind converts a policy name, case-insensitive, to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "round-robin", "roundrobin":
		return RoundRobin, nil
	case "loop-rte", "memo":
		return LoopMemo, nil
	}
	for kind, candidate := range kindNames {
		if candidate == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown policy %q", model.ErrInvalidArgument, name)
}
