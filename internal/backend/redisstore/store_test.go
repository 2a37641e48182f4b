package redisstore_test

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"taskview/internal/backend/redisstore"
	"taskview/internal/repository"
)

func setupStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	s := redisstore.New(rc, "tv:", nil)
	t.Cleanup(func() { s.Close() })
	return s, m
}

func TestGetTask_Missing(t *testing.T) {
	s, _ := setupStore(t)

	task, err := s.GetTask(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != nil {
		t.Errorf("expected nil task, got %+v", task)
	}
}

func TestGetTask_NullableFields(t *testing.T) {
	s, m := setupStore(t)
	m.HSet("tv:task:42", "title", "Buy milk", "completed", "0")

	task, err := s.GetTask(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task == nil {
		t.Fatal("expected a task")
	}
	if task.Title == nil || *task.Title != "Buy milk" {
		t.Errorf("unexpected title: %v", task.Title)
	}
	if task.Description != nil {
		t.Errorf("expected nil description, got %q", *task.Description)
	}
	if task.Completed {
		t.Error("expected active task")
	}
}

func TestSaveTask_RoundTripKeepsEmptyFields(t *testing.T) {
	s, m := setupStore(t)
	ctx := context.Background()

	saved, err := s.SaveTask(ctx, repository.Task{
		Title:       repository.String("Buy milk"),
		Description: repository.String(""),
	})
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if got := m.HGet("tv:task:"+saved.ID, "description"); got != "" {
		t.Errorf("expected empty description field, got %q", got)
	}

	task, err := s.GetTask(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Description == nil || *task.Description != "" {
		t.Errorf("expected present but empty description, got %v", task.Description)
	}
}

func TestSaveTask_ReplaceDropsNilFields(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	if _, err := s.SaveTask(ctx, repository.Task{ID: "1", Title: repository.String("a"), Description: repository.String("b")}); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	if _, err := s.SaveTask(ctx, repository.Task{ID: "1", Title: repository.String("c")}); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	task, err := s.GetTask(ctx, "1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.TitleOrEmpty() != "c" || task.Description != nil {
		t.Errorf("unexpected task after replace: title=%v description=%v", task.Title, task.Description)
	}
}

func TestCompleteAndActivate(t *testing.T) {
	s, m := setupStore(t)
	ctx := context.Background()
	m.HSet("tv:task:7", "title", "Walk dog", "completed", "0")

	if err := s.CompleteTask(ctx, "7"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if got := m.HGet("tv:task:7", "completed"); got != "1" {
		t.Errorf("expected completed=1, got %q", got)
	}

	if err := s.ActivateTask(ctx, "7"); err != nil {
		t.Fatalf("ActivateTask: %v", err)
	}
	if got := m.HGet("tv:task:7", "completed"); got != "0" {
		t.Errorf("expected completed=0, got %q", got)
	}
}

func TestCommands_MissingTask(t *testing.T) {
	s, m := setupStore(t)
	ctx := context.Background()

	if err := s.CompleteTask(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("CompleteTask: expected ErrNotFound, got %v", err)
	}
	if err := s.ActivateTask(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ActivateTask: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTask(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
	if m.Exists("tv:task:ghost") {
		t.Error("commands must not create a hash for a missing task")
	}
}

func TestDeleteTask(t *testing.T) {
	s, m := setupStore(t)
	m.HSet("tv:task:7", "title", "Walk dog")

	if err := s.DeleteTask(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if m.Exists("tv:task:7") {
		t.Error("expected key to be removed")
	}
}

func TestDial_Unreachable(t *testing.T) {
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := m.Addr()
	m.Close()

	_, err = redisstore.Dial(context.Background(), &redis.Options{Addr: addr, MaxRetries: -1}, "tv:", nil)
	if err == nil {
		t.Error("expected dial error for closed server")
	}
}
