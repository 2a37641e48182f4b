// Package googletasks implements repository.Repository using the Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskview/internal/config"
	"taskview/internal/logging"
	"taskview/internal/repository"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements repository.Repository using Google Tasks API.
// All operations target a single task list.
type Client struct {
	svc    *tasks.Service
	listID string
	log    logrus.FieldLogger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Auto-refreshing token source
	tokenSource := oauthConfig.TokenSource(ctx, token)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return newClient(svc, cfg.Settings.Google.List, log), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc, listID, nil), nil
}

func newClient(svc *tasks.Service, listID string, log logrus.FieldLogger) *Client {
	if listID == "" {
		listID = DefaultListID
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		svc:    svc,
		listID: listID,
		log:    log.WithField("backend", "googletasks"),
	}
}

// GetTask implements repository.Repository.
// A task the API reports as missing or deleted yields nil, nil.
func (c *Client) GetTask(ctx context.Context, id string) (*repository.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		err = wrapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if t.Deleted {
		return nil, nil
	}

	task := fromAPI(t)
	c.log.WithField("task", id).Debug("fetched task")
	return &task, nil
}

// DeleteTask implements repository.Repository.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, id string) error {
	return c.patch(ctx, id, &tasks.Task{Status: statusCompleted})
}

// ActivateTask marks a task as needing action and clears its completion time.
func (c *Client) ActivateTask(ctx context.Context, id string) error {
	return c.patch(ctx, id, &tasks.Task{
		Status:     statusNeedsAction,
		NullFields: []string{"Completed"},
	})
}

func (c *Client) patch(ctx context.Context, id string, body *tasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := c.svc.Tasks.Patch(c.listID, id, body).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// SaveTask inserts a task when task.ID is empty and replaces it otherwise.
// On update, nil fields are sent as null so the stored task loses them.
func (c *Client) SaveTask(ctx context.Context, task repository.Task) (repository.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := toAPI(task, task.ID != "")

	var (
		saved *tasks.Task
		err   error
	)
	if task.ID == "" {
		saved, err = c.svc.Tasks.Insert(c.listID, body).Context(ctx).Do()
	} else {
		saved, err = c.svc.Tasks.Patch(c.listID, task.ID, body).Context(ctx).Do()
	}
	if err != nil {
		return repository.Task{}, wrapError(err)
	}
	return fromAPI(saved), nil
}

func fromAPI(t *tasks.Task) repository.Task {
	task := repository.Task{
		ID:        t.Id,
		Title:     repository.String(t.Title),
		Completed: t.Status == statusCompleted,
	}
	// The API omits notes entirely when a task has none.
	if t.Notes != "" {
		task.Description = repository.String(t.Notes)
	}
	return task
}

// toAPI builds a request body. With nullMissing set, nil fields and the
// completion time of an active task are sent as null.
func toAPI(task repository.Task, nullMissing bool) *tasks.Task {
	body := &tasks.Task{}
	switch {
	case task.Title != nil:
		body.Title = *task.Title
		body.ForceSendFields = append(body.ForceSendFields, "Title")
	case nullMissing:
		body.NullFields = append(body.NullFields, "Title")
	}
	switch {
	case task.Description != nil:
		body.Notes = *task.Description
		body.ForceSendFields = append(body.ForceSendFields, "Notes")
	case nullMissing:
		body.NullFields = append(body.NullFields, "Notes")
	}
	if task.Completed {
		body.Status = statusCompleted
	} else {
		body.Status = statusNeedsAction
		if nullMissing {
			body.NullFields = append(body.NullFields, "Completed")
		}
	}
	return body
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: taskview login)")
		case http.StatusNotFound, http.StatusGone:
			return repository.ErrNotFound
		}
	}

	return err
}
