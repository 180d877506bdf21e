// Package oteladapters provides OpenTelemetry implementations of the ledger observability
// interfaces: MetricsCollector, TracingCollector and ContextualLogger.
//
// Instruments, tracers and loggers come from the global OpenTelemetry providers unless
// explicit ones are passed in.
package oteladapters
