// Package policy implements the scheduling policies a scheduler is created
// with: round robin, none, single, loop and loop with memoized picks.  A
// policy builds per caller keys and maps a key and a mode to a context index,
// and knows which contexts to poll for completions.
package policy
