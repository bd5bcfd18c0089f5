// Package balancer splits dispatch between the hardware and the software
// side of a loop scheduler.  Synchronous picks follow a fixed time slice,
// asynchronous picks follow the outstanding task counts.  All counters are
// atomic so concurrent pickers and pollers need no lock.
package balancer
