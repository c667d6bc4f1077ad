// Package tracing provides span helpers for the chat pipeline.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("echomind")

// StartChatSpan starts a span covering one chat request.
func StartChatSpan(ctx context.Context, tenantID string, quiz bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "chat.request", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.Bool("chat.quiz", quiz),
	))
}

// StartRetrievalSpan starts a span covering context resolution.
func StartRetrievalSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "context.resolve", trace.WithAttributes(
		attribute.String("context.source", source),
	))
}

// StartGenerationSpan starts a span covering one provider call.
func StartGenerationSpan(ctx context.Context, provider string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "answer.generate", trace.WithAttributes(
		attribute.String("llm.provider", provider),
	))
}

// RecordError marks the span failed and records the error.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
}
