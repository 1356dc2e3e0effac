package rtrace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// OpenTelemetrySpan returns a Provider that renders the active span's
// trace and span IDs from ctx, for deployments that already propagate an
// OpenTelemetry span across the submission boundary and want task traces
// correlated with it instead of a raw Go stack dump.
func OpenTelemetrySpan(ctx context.Context) Provider {
	return func() string {
		sc := trace.SpanContextFromContext(ctx)
		if !sc.IsValid() {
			return ""
		}
		return fmt.Sprintf("trace=%s span=%s", sc.TraceID(), sc.SpanID())
	}
}
