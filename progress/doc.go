// Package progress aggregates drain counters (polls, expected and collected
// completions, failures) for a scheduler.  The tracker travels in the
// context so every component that polls can report without a registry.
package progress
