// Package telemetry wires the client's tracing and metrics exporters.
//
// Tracing is opt-in: SetupTracing registers an OTLP/HTTP tracer provider
// only when an endpoint is configured. MetricsServer exposes the gateway's
// Prometheus collectors on a private registry.
package telemetry
