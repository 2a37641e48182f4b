package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/logging"
	"taskview/internal/mainloop"
	"taskview/internal/output"
	"taskview/internal/repository"
	"taskview/internal/taskdetail"
)

// sessionResult is what a presenter session ended with.
type sessionResult struct {
	outcome output.Outcome
	editID  string
	loadErr error
	cmdErr  error
}

// runSession creates a presenter for taskID on a line view, runs action on
// the UI loop and keeps the loop alive until the view reaches a terminal
// state or ctx is cancelled. Background repository work is drained before
// returning.
func runSession(ctx context.Context, cfg *config.Config, repo repository.Repository, taskID string, out, errOut io.Writer, action func(p *taskdetail.Presenter)) sessionResult {
	log := commandLogger(cfg, errOut)

	loop := mainloop.New()
	bg := mainloop.NewBackground()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	view := output.NewDetailView(out, errOut, cfg.Quiet, log, func(output.Outcome) { stop() })

	var (
		mu  sync.Mutex
		res sessionResult
	)
	onError := func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if op == taskdetail.OpGetTask {
			res.loadErr = err
			return
		}
		if res.cmdErr == nil {
			res.cmdErr = err
		}
	}

	p := taskdetail.New(taskID, repo, view,
		taskdetail.WithSchedulers(bg, loop),
		taskdetail.WithLogger(log),
		taskdetail.WithTimeout(cfg.Settings.Timeout),
		taskdetail.WithErrorHandler(onError),
	)

	loop.Post(func() { action(p) })
	_ = loop.Run(runCtx)

	// The loop has stopped, so this goroutine is the UI goroutine now.
	view.Close()
	p.Unsubscribe()
	bg.Wait()

	mu.Lock()
	defer mu.Unlock()
	res.outcome = view.Outcome()
	res.editID = view.EditID()
	return res
}

// exitCode maps a session result to the process exit code, printing any
// error the view has not already reported.
func (r sessionResult) exitCode(errOut io.Writer) int {
	switch {
	case r.outcome == output.Pending:
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	case r.outcome == output.Missing && r.loadErr != nil:
		// The presenter already logged the load failure.
		return exitcode.BackendError
	case r.outcome == output.Missing:
		return exitcode.UserError
	case r.cmdErr != nil:
		return reportBackendError(errOut, r.cmdErr)
	}
	return exitcode.Success
}

// commandLogger returns the run's shared logger, or a new one on errOut when
// the command runs outside the dispatcher.
func commandLogger(cfg *config.Config, errOut io.Writer) *logrus.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.New(errOut, cfg.Debug)
}

// reportBackendError prints err in CLI form and returns its exit code.
func reportBackendError(errOut io.Writer, err error) int {
	if errors.Is(err, repository.ErrNotFound) {
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
