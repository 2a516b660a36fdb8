package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("cricket-slots/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for a handler. Requests that the tracing
// middleware skipped (health probes) have no parent and get a no-op span.
func startSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}

	attrs := make([]attribute.KeyValue, 0, 2)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if matchID := r.PathValue("matchID"); matchID != "" {
		attrs = append(attrs, attribute.String("match.id", matchID))
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+op, trace.WithAttributes(attrs...))
}
