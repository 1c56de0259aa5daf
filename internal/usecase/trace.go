package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("team-randomiser/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

const sessionIDKey = attribute.Key("randomiser.session_id")

// startUsecaseSpan opens a child span only when the caller is already traced,
// so background work like the session sweeper stays out of the trace backend.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func sessionAttr(sessionID string) attribute.KeyValue {
	return sessionIDKey.String(sessionID)
}
