package model

import (
	"fmt"
	"strings"
)

// Mode is the submission semantics of a task.
type Mode uint8

const (
	// ModeSync marks a synchronous send.
	ModeSync Mode = iota
	// ModeAsync marks an asynchronous send whose completion is polled.
	ModeAsync
)

// ModeCount is the number of submission modes.
const ModeCount = 2

// Modes lists every mode in index order.
var Modes = [ModeCount]Mode{ModeSync, ModeAsync}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m < ModeCount
}

func (m Mode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModeAsync:
		return "async"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidArgument, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "sync", "0":
		*m = ModeSync
	case "async", "1":
		*m = ModeAsync
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, text)
	}
	return nil
}
