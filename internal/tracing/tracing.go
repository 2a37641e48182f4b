// Package tracing builds the OpenTelemetry tracer provider for one run.
// Finished spans are written to the run's logger at debug level.
package tracing

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewProvider returns a tracer provider exporting spans to log as they end.
// Callers must Shutdown it.
func NewProvider(log logrus.FieldLogger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(log)))
}

// LogExporter is a SpanExporter that writes one log entry per span.
type LogExporter struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	stopped bool
}

// NewLogExporter creates a LogExporter writing to log.
func NewLogExporter(log logrus.FieldLogger) *LogExporter {
	return &LogExporter{log: log}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil
	}

	for _, span := range spans {
		sc := span.SpanContext()
		fields := logrus.Fields{
			"span":     span.Name(),
			"trace_id": sc.TraceID().String(),
			"span_id":  sc.SpanID().String(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		for _, kv := range span.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}

		entry := e.log.WithFields(fields)
		if st := span.Status(); st.Code == codes.Error {
			entry = entry.WithField("error", st.Description)
		}
		entry.Debug("span")
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. Later spans are dropped.
func (e *LogExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	return ctx.Err()
}
