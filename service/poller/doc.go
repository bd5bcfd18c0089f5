// Package poller drains completions by probing async contexts through the
// injected completion check, sweeping numa nodes with a bounded retry budget.
package poller
