// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskview/internal/repository"
)

// Repository operation names recorded by FakeRepository.
const (
	OpGet      = "GetTask"
	OpDelete   = "DeleteTask"
	OpComplete = "CompleteTask"
	OpActivate = "ActivateTask"
	OpSave     = "SaveTask"
)

// Call is one recorded repository call.
type Call struct {
	Op string
	ID string
}

// FakeRepository is an in-memory implementation of repository.Repository for testing.
type FakeRepository struct {
	mu     sync.Mutex
	tasks  map[string]repository.Task
	calls  []Call
	nextID int

	// Error injection for testing
	GetTaskErr      error
	DeleteTaskErr   error
	CompleteTaskErr error
	ActivateTaskErr error
	SaveTaskErr     error

	// GetTaskGate, when set, blocks GetTask until it receives a value or the
	// context is done.
	GetTaskGate chan struct{}
}

// NewFakeRepository creates an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		tasks: make(map[string]repository.Task),
	}
}

// AddTask stores a task without recording a call.
func (f *FakeRepository) AddTask(task repository.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
}

// Task returns the stored task with the given ID.
func (f *FakeRepository) Task(id string) (repository.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	return t, ok
}

// Calls returns a copy of all recorded calls in order.
func (f *FakeRepository) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times op was called with id.
func (f *FakeRepository) CallCount(op, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op && c.ID == id {
			n++
		}
	}
	return n
}

func (f *FakeRepository) record(op, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, ID: id})
}

// GetTask implements repository.Repository.
func (f *FakeRepository) GetTask(ctx context.Context, id string) (*repository.Task, error) {
	f.record(OpGet, id)

	if f.GetTaskGate != nil {
		select {
		case <-f.GetTaskGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// DeleteTask implements repository.Repository.
func (f *FakeRepository) DeleteTask(ctx context.Context, id string) error {
	f.record(OpDelete, id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

// CompleteTask implements repository.Repository.
func (f *FakeRepository) CompleteTask(ctx context.Context, id string) error {
	f.record(OpComplete, id)
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	return f.setCompleted(id, true)
}

// ActivateTask implements repository.Repository.
func (f *FakeRepository) ActivateTask(ctx context.Context, id string) error {
	f.record(OpActivate, id)
	if f.ActivateTaskErr != nil {
		return f.ActivateTaskErr
	}
	return f.setCompleted(id, false)
}

func (f *FakeRepository) setCompleted(id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Completed = completed
	f.tasks[id] = t
	return nil
}

// SaveTask implements repository.Repository.
func (f *FakeRepository) SaveTask(ctx context.Context, task repository.Task) (repository.Task, error) {
	f.record(OpSave, task.ID)
	if f.SaveTaskErr != nil {
		return repository.Task{}, f.SaveTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == "" {
		f.nextID++
		task.ID = fmt.Sprintf("task-%d", f.nextID)
	}
	f.tasks[task.ID] = task
	return task, nil
}
