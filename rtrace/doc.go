// Package rtrace provides task-submission-trace providers: functions
// that capture a textual description of "who submitted this task", set
// once as a pool-wide hook (an optional task-submission-trace provider)
// and attached to every PoolTaskHandle for post-mortem diagnostics.
//
// RuntimeStack is grounded on ChainedPromise.CreationStackTrace in
// eventloop/promise.go (runtime.Callers + runtime.CallersFrames).
// OpenTelemetrySpan is an ecosystem-native alternative for services that
// already propagate a trace context, using
// go.opentelemetry.io/otel/trace.
package rtrace
