package repository

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of repository spans.
const TracerName = "taskview/repository"

type tracedRepository struct {
	next   Repository
	tracer trace.Tracer
}

// Traced wraps a Repository so every call is recorded as a span.
// A nil tracer uses the global tracer provider.
func Traced(next Repository, tracer trace.Tracer) Repository {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &tracedRepository{next: next, tracer: tracer}
}

func (r *tracedRepository) start(ctx context.Context, op, id string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "repository."+op, trace.WithAttributes(attribute.String("task.id", id)))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *tracedRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, span := r.start(ctx, "GetTask", id)
	task, err := r.next.GetTask(ctx, id)
	span.SetAttributes(attribute.Bool("task.found", task != nil))
	finish(span, err)
	return task, err
}

func (r *tracedRepository) DeleteTask(ctx context.Context, id string) error {
	ctx, span := r.start(ctx, "DeleteTask", id)
	err := r.next.DeleteTask(ctx, id)
	finish(span, err)
	return err
}

func (r *tracedRepository) CompleteTask(ctx context.Context, id string) error {
	ctx, span := r.start(ctx, "CompleteTask", id)
	err := r.next.CompleteTask(ctx, id)
	finish(span, err)
	return err
}

func (r *tracedRepository) ActivateTask(ctx context.Context, id string) error {
	ctx, span := r.start(ctx, "ActivateTask", id)
	err := r.next.ActivateTask(ctx, id)
	finish(span, err)
	return err
}

func (r *tracedRepository) SaveTask(ctx context.Context, task Task) (Task, error) {
	ctx, span := r.start(ctx, "SaveTask", task.ID)
	saved, err := r.next.SaveTask(ctx, task)
	if err == nil {
		span.SetAttributes(attribute.String("task.id", saved.ID))
	}
	finish(span, err)
	return saved, err
}

// Close closes the wrapped repository if it holds resources.
func (r *tracedRepository) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
