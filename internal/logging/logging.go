// Package logging holds the verbosity levels used across the scheduler and
// the default logr sink.
package logging

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Verbosity levels passed to logr.Logger.V.
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// New returns a logger writing to stderr through the standard log package.
// verbosity applies to this logger only.
func New(verbosity int) logr.Logger {
	return NewWithLogger(log.New(os.Stderr, "", log.LstdFlags), verbosity)
}

// NewWithLogger returns a logger writing through std.
func NewWithLogger(std *log.Logger, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix == "" {
			std.Println(args)
			return
		}
		std.Println(prefix + ": " + args)
	}, funcr.Options{LogCaller: funcr.Error, Verbosity: verbosity}).WithName("ctxsched")
}

// Default returns the logger used when none is configured: lifecycle events only.
func Default() logr.Logger {
	return New(DEFAULT)
}
