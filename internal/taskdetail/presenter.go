package taskdetail

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"taskview/internal/logging"
	"taskview/internal/repository"
)

// DefaultCommandTimeout bounds background delete/complete/activate calls.
const DefaultCommandTimeout = 10 * time.Second

// Operation names passed to an ErrorHandler.
const (
	OpGetTask      = "get"
	OpDeleteTask   = "delete"
	OpCompleteTask = "complete"
	OpActivateTask = "activate"
)

// ErrorHandler receives failures of background repository calls.
// It may be called from the background goroutine.
type ErrorHandler func(op string, err error)

// Presenter listens to user actions from a View, retrieves the data and
// updates the View as required.
//
// Every method must be called on the UI goroutine, the same one the ui
// Scheduler runs its jobs on. The presenter holds no locks.
type Presenter struct {
	taskID string
	repo   repository.Repository
	view   View

	background Scheduler
	ui         Scheduler
	log        logrus.FieldLogger
	onError    ErrorHandler
	timeout    time.Duration

	inflight *load
}

// load is one in-flight GetTask call.
type load struct {
	cancel context.CancelFunc
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithSchedulers sets the execution contexts for repository work and for
// view updates.
func WithSchedulers(background, ui Scheduler) Option {
	return func(p *Presenter) {
		p.background = background
		p.ui = ui
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Presenter) {
		p.log = log
	}
}

// WithErrorHandler installs a callback for background repository failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Presenter) {
		p.onError = h
	}
}

// WithTimeout bounds each background delete/complete/activate call.
// Non-positive durations keep DefaultCommandTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Presenter) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a presenter for the task with the given ID and registers it
// with the view. An empty taskID means no task is selected.
//
// Without WithSchedulers, repository work runs synchronously on the calling
// goroutine.
func New(taskID string, repo repository.Repository, view View, opts ...Option) *Presenter {
	if repo == nil {
		panic("taskdetail: repository cannot be nil")
	}
	if view == nil {
		panic("taskdetail: view cannot be nil")
	}

	p := &Presenter{
		taskID:     taskID,
		repo:       repo,
		view:       view,
		background: inlineScheduler{},
		ui:         inlineScheduler{},
		log:        logging.Discard(),
		timeout:    DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("task", taskID)

	view.SetPresenter(p)
	return p
}

// TaskID returns the ID the presenter was created with.
func (p *Presenter) TaskID() string {
	return p.taskID
}

// Subscribe starts loading the task into the view.
func (p *Presenter) Subscribe() {
	p.openTask()
}

// Unsubscribe cancels any in-flight load. Safe to call repeatedly.
func (p *Presenter) Unsubscribe() {
	p.clearLoad()
}

// EditTask navigates the view to the edit screen.
func (p *Presenter) EditTask() {
	if p.taskID == "" {
		p.view.ShowMissingTask()
		return
	}
	p.view.ShowEditTask(p.taskID)
}

// DeleteTask removes the task and confirms immediately.
// Does nothing when no task is selected.
func (p *Presenter) DeleteTask() {
	if p.taskID == "" {
		return
	}
	p.dispatch(OpDeleteTask, p.repo.DeleteTask)
	p.view.ShowTaskDeleted()
}

// CompleteTask marks the task completed and confirms immediately.
func (p *Presenter) CompleteTask() {
	if p.taskID == "" {
		p.view.ShowMissingTask()
		return
	}
	p.dispatch(OpCompleteTask, p.repo.CompleteTask)
	p.view.ShowTaskMarkedComplete()
}

// ActivateTask marks the task active and confirms immediately.
func (p *Presenter) ActivateTask() {
	if p.taskID == "" {
		p.view.ShowMissingTask()
		return
	}
	p.dispatch(OpActivateTask, p.repo.ActivateTask)
	p.view.ShowTaskMarkedActive()
}

func (p *Presenter) openTask() {
	if p.taskID == "" {
		p.view.ShowMissingTask()
		return
	}

	p.view.SetLoadingIndicator(true)
	p.clearLoad()

	ctx, cancel := context.WithCancel(context.Background())
	l := &load{cancel: cancel}
	p.inflight = l

	id := p.taskID
	p.log.Debug("loading task")
	p.background.Post(func() {
		task, err := p.repo.GetTask(ctx, id)
		p.ui.Post(func() {
			p.finishLoad(l, task, err)
		})
	})
}

// finishLoad runs on the UI goroutine once GetTask returns.
func (p *Presenter) finishLoad(l *load, task *repository.Task, err error) {
	// Cancelled or superseded while the fetch was running.
	if p.inflight != l {
		return
	}
	p.inflight = nil
	l.cancel()

	// The view may not be able to handle UI updates anymore.
	if !p.view.IsActive() {
		return
	}

	if err != nil {
		p.log.WithError(err).Warn("failed to load task")
		p.report(OpGetTask, err)
		task = nil
	}

	p.view.SetLoadingIndicator(false)
	if task == nil {
		p.view.ShowMissingTask()
		return
	}
	p.showTask(*task)
}

func (p *Presenter) clearLoad() {
	if p.inflight == nil {
		return
	}
	p.inflight.cancel()
	p.inflight = nil
	p.log.Debug("cancelled task load")
}

func (p *Presenter) showTask(task repository.Task) {
	if task.Title != nil && *task.Title == "" {
		p.view.HideTitle()
	} else {
		p.view.ShowTitle(task.Title)
	}

	if task.Description != nil && *task.Description == "" {
		p.view.HideDescription()
	} else {
		p.view.ShowDescription(task.Description)
	}

	p.view.ShowCompletionStatus(task.Completed)
}

// dispatch runs a repository command in the background without waiting for it.
func (p *Presenter) dispatch(op string, fn func(ctx context.Context, id string) error) {
	id := p.taskID
	timeout := p.timeout
	log := p.log.WithField("op", op)
	onError := p.onError

	p.background.Post(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := fn(ctx, id); err != nil {
			log.WithError(err).Warn("task command failed")
			if onError != nil {
				onError(op, err)
			}
			return
		}
		log.Debug("task command done")
	})
}

func (p *Presenter) report(op string, err error) {
	if p.onError != nil {
		p.onError(op, err)
	}
}

type inlineScheduler struct{}

func (inlineScheduler) Post(fn func()) { fn() }
