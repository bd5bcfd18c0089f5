package model

import "math"

// InvalidContext is returned by pick operations when no context is available.
// It must never be used as an index.
const InvalidContext uint32 = math.MaxUint32

// CompletionCheck probes one context for finished work.  It returns the number
// of items collected (at most max).  A nil error means success, ErrTryAgain
// means nothing was ready, any other error is fatal for the current poll.
//
// Implementations are called repeatedly and rapidly and must not block.
type CompletionCheck func(index uint32, max uint32) (uint32, error)
