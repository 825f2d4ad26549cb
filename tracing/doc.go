// Package tracing integrates OpenTelemetry with the dispatcher so that
// admission decisions and request executions show up as spans.  Until Init
// (or InitWithExporter) is called the global no-op provider is used and all
// helpers are cheap.
package tracing
