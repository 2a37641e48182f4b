// Package repository defines the backend-agnostic contract for task storage.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by commands that target a task the backend does not hold.
var ErrNotFound = errors.New("task not found")

// Repository defines the interface for task backend operations.
// Presenters and commands never import a backend SDK directly.
type Repository interface {
	// GetTask returns the task with the given ID.
	// Returns nil and a nil error when no such task exists.
	GetTask(ctx context.Context, id string) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, id string) error

	// ActivateTask marks a completed task as active again.
	ActivateTask(ctx context.Context, id string) error

	// SaveTask inserts the task when its ID is empty and replaces it otherwise.
	// A replaced task keeps no field that is nil in task.
	// Returns the stored task, including any generated ID.
	SaveTask(ctx context.Context, task Task) (Task, error)
}
