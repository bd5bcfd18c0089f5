// Package drainer runs a background loop that polls a scheduler for
// completions and publishes each non empty result as a Batch.
package drainer
