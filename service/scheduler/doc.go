// Package scheduler provides the scheduler context: the region table, the
// numa locality map, the balancer and the policy chosen at creation, behind
// create, register, init, pick, poll and release operations.
package scheduler
