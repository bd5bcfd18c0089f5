package model

import (
	"fmt"
	"strings"
)

// PathKind identifies the resource class serving a task.
type PathKind uint8

const (
	// PathHardware is a hardware accelerator queue.
	PathHardware PathKind = iota
	// PathCryptoEngine is a crypto-engine instruction instance.
	PathCryptoEngine
	// PathVectorEngine is a vector-engine instruction instance.
	PathVectorEngine
	// PathSoftware is the pure software fallback.
	PathSoftware
)

// PathCount is the number of execution path kinds.
const PathCount = 4

// Paths lists every path kind in resolution priority order.
var Paths = [PathCount]PathKind{PathHardware, PathCryptoEngine, PathVectorEngine, PathSoftware}

// Valid reports whether p is a known path kind.
func (p PathKind) Valid() bool {
	return p < PathCount
}

// IsHardware reports whether p is the hardware path; every other path counts
// as software for load balancing.
func (p PathKind) IsHardware() bool {
	return p == PathHardware
}

func (p PathKind) String() string {
	switch p {
	case PathHardware:
		return "hardware"
	case PathCryptoEngine:
		return "crypto"
	case PathVectorEngine:
		return "vector"
	case PathSoftware:
		return "software"
	}
	return fmt.Sprintf("path(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p PathKind) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: path %d", ErrInvalidArgument, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PathKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "hardware", "hw", "0":
		*p = PathHardware
	case "crypto", "ce", "1":
		*p = PathCryptoEngine
	case "vector", "sve", "2":
		*p = PathVectorEngine
	case "software", "soft", "sw", "3":
		*p = PathSoftware
	default:
		return fmt.Errorf("%w: unknown path %q", ErrInvalidArgument, text)
	}
	return nil
}
