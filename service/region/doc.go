// Package region owns the context region table: for every numa node,
// execution path, mode and task type it records the contiguous range of
// context indices provisioned for that combination together with its
// round-robin cursor.
//
// All cells live in one slice allocated when the table is created, so the
// table never grows and a failed creation leaves nothing to unwind.
package region
