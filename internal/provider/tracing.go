package provider

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used for backend call spans.
const TracerName = "github.com/phrazzld/lecturenotes/internal/provider"

// StartSpan opens a span named provider.<backend>.<stage> for one outbound call.
func StartSpan(ctx context.Context, b Backend, stage Stage, model string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "provider."+string(b)+"."+string(stage),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider", string(b)),
			attribute.String("model", model),
		),
	)
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if k := KindOf(err); k != 0 {
			span.SetAttributes(attribute.String("error.kind", k.String()))
		}
	}
	span.End()
}
