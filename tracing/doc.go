// Package tracing wraps OpenTelemetry so scheduler components can open and
// close spans without importing the SDK.  Spans are no-ops until Init or
// InitWithExporter installs a provider.
package tracing
