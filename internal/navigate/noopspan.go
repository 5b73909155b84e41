package navigate

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
)

// noopSpan satisfies trace.Span for the case where no Tracer was
// configured; tracing is pure observability and must never be required
// for the loop to run.
type noopSpan struct{ embedded.Span }

func (noopSpan) End(...trace.SpanEndOption)                  {}
func (noopSpan) AddEvent(string, ...trace.EventOption)        {}
func (noopSpan) IsRecording() bool                            { return false }
func (noopSpan) RecordError(error, ...trace.EventOption)      {}
func (noopSpan) SpanContext() trace.SpanContext               { return trace.SpanContext{} }
func (noopSpan) SetStatus(codes.Code, string)                 {}
func (noopSpan) SetName(string)                               {}
func (noopSpan) SetAttributes(...attribute.KeyValue)          {}
func (noopSpan) TracerProvider() trace.TracerProvider         { return trace.NewNoopTracerProvider() }
func (noopSpan) AddLink(trace.Link)                           {}
