// Package redisstore implements repository.Repository on Redis hashes.
//
// Each task lives in its own hash at <prefix>task:<id>. The title and
// description fields are only written when the task has a value for them,
// so a missing hash field reads back as a nil pointer.
package redisstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"taskview/internal/logging"
	"taskview/internal/repository"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCompleted   = "completed"
)

// Store implements repository.Repository on a Redis client.
type Store struct {
	rc     *redis.Client
	prefix string
	log    logrus.FieldLogger
	newID  func() string
}

// New creates a Store. Keys are namespaced with prefix.
func New(rc *redis.Client, prefix string, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		rc:     rc,
		prefix: prefix,
		log:    log.WithField("backend", "redis"),
		newID:  uuid.NewString,
	}
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, opts *redis.Options, prefix string, log logrus.FieldLogger) (*Store, error) {
	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("redis %s: %w", opts.Addr, err)
	}
	return New(rc, prefix, log), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.rc.Close()
}

func (s *Store) key(id string) string {
	return s.prefix + "task:" + id
}

// GetTask implements repository.Repository.
func (s *Store) GetTask(ctx context.Context, id string) (*repository.Task, error) {
	fields, err := s.rc.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	task := repository.Task{
		ID:        id,
		Completed: fields[fieldCompleted] == "1",
	}
	if v, ok := fields[fieldTitle]; ok {
		task.Title = repository.String(v)
	}
	if v, ok := fields[fieldDescription]; ok {
		task.Description = repository.String(v)
	}
	return &task, nil
}

// DeleteTask implements repository.Repository.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	n, err := s.rc.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	s.log.WithField("task", id).Debug("deleted task")
	return nil
}

// CompleteTask implements repository.Repository.
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, true)
}

// ActivateTask implements repository.Repository.
func (s *Store) ActivateTask(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, false)
}

// setCompletedScript only touches existing hashes so a command on a missing
// task does not create a stub.
var setCompletedScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

func (s *Store) setCompleted(ctx context.Context, id string, completed bool) error {
	n, err := setCompletedScript.Run(ctx, s.rc, []string{s.key(id)}, fieldCompleted, boolField(completed)).Int()
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	s.log.WithFields(logrus.Fields{"task": id, "completed": completed}).Debug("updated task")
	return nil
}

// SaveTask implements repository.Repository.
// The stored hash is replaced, so nil fields are removed.
func (s *Store) SaveTask(ctx context.Context, task repository.Task) (repository.Task, error) {
	if task.ID == "" {
		task.ID = s.newID()
	}

	values := map[string]any{fieldCompleted: boolField(task.Completed)}
	if task.Title != nil {
		values[fieldTitle] = *task.Title
	}
	if task.Description != nil {
		values[fieldDescription] = *task.Description
	}

	key := s.key(task.ID)
	_, err := s.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		return nil
	})
	if err != nil {
		return repository.Task{}, fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return task, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
