package ctxsched

import (
	"github.com/go-logr/logr"
	"github.com/viant/ctxsched/service/drainer"
	"github.com/viant/ctxsched/service/messaging"
	"github.com/viant/ctxsched/service/numa"
	"github.com/viant/ctxsched/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithTopology sets the numa topology, defaults to sysfs
func WithTopology(topology numa.Topology) Option {
	return func(s *Service) {
		s.topology = topology
	}
}

// WithLogger sets the logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithQueue sets the queue completion batches are published to
func WithQueue(queue messaging.Queue[drainer.Batch]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter.  If
// outputFile is empty spans go to stdout.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
