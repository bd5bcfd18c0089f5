package model

import "errors"

// Sentinel errors surfaced by the scheduler.  Callers detect conditions with
// errors.Is; the concrete errors returned are usually wrapped with context.
var (
	// ErrInvalidArgument reports a bad numa id, type, mode, region bounds or
	// a nil handle.
	ErrInvalidArgument = errors.New("ctxsched: invalid argument")

	// ErrOutOfMemory reports that the region arena could not be sized.
	ErrOutOfMemory = errors.New("ctxsched: out of memory")

	// ErrInvalidContext reports that no region resolves for a key.
	ErrInvalidContext = errors.New("ctxsched: invalid context")

	// ErrTryAgain is returned by a CompletionCheck when the probed context
	// has nothing ready yet.  The poller treats it as zero completions.
	ErrTryAgain = errors.New("ctxsched: try again")

	// ErrReleased is returned when a released scheduler is used.
	ErrReleased = errors.New("ctxsched: scheduler released")
)
