// Package idgen issues opaque identifiers for queue messages and drain
// batches.  Tests replace NewFunc to get predictable ids.
package idgen
