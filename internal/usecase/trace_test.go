package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/team-randomiser/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/team-randomiser/internal/platform/logging"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := usecaseTracer
	usecaseTracer = provider.Tracer("usecase-test")
	t.Cleanup(func() {
		usecaseTracer = previous
		_ = provider.Shutdown(context.Background())
	})
	return recorder, provider
}

func TestStartUsecaseSpan_SkipsUntracedCallers(t *testing.T) {
	recorder, _ := recordSpans(t)

	ctx, span := startUsecaseSpan(context.Background(), "usecase.SessionService.SweepExpired")
	span.End()

	if ctx != context.Background() {
		t.Fatalf("expected context to be returned unchanged")
	}
	if got := len(recorder.Ended()); got != 0 {
		t.Fatalf("expected no recorded spans, got %d", got)
	}
}

func TestStartUsecaseSpan_TagsSessionID(t *testing.T) {
	recorder, provider := recordSpans(t)
	service := NewSessionService(memory.NewSessionRepository(), staticIDGenerator{id: "traced"}, 0, logging.NewNop())

	parentCtx, parent := provider.Tracer("http").Start(context.Background(), "GET /v1/sessions/{sessionID}")
	if _, err := service.Create(parentCtx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Get(parentCtx, "traced"); err != nil {
		t.Fatalf("get: %v", err)
	}
	parent.End()

	var found bool
	for _, span := range recorder.Ended() {
		if span.Name() != "usecase.SessionService.Get" {
			continue
		}
		found = true
		if span.Parent().SpanID() != parent.SpanContext().SpanID() {
			t.Fatalf("span is not a child of the request span")
		}
		var tagged bool
		for _, attr := range span.Attributes() {
			if attr.Key == sessionIDKey && attr.Value.AsString() == "traced" {
				tagged = true
			}
		}
		if !tagged {
			t.Fatalf("missing session id attribute: %v", span.Attributes())
		}
	}
	if !found {
		t.Fatalf("expected usecase.SessionService.Get span to be recorded")
	}
}
