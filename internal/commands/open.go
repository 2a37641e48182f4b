package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/mainloop"
	"taskview/internal/repository"
	"taskview/internal/taskdetail"
	"taskview/internal/tui"
)

func init() {
	Register(&OpenCmd{})
}

// OpenCmd implements the open command: the interactive task screen.
type OpenCmd struct {
	// programOptions are appended to the bubbletea options (for testing).
	programOptions []tea.ProgramOption
}

// SetProgramOptions sets extra bubbletea options (for testing).
func (c *OpenCmd) SetProgramOptions(opts ...tea.ProgramOption) {
	c.programOptions = opts
}

func (c *OpenCmd) Name() string          { return "open" }
func (c *OpenCmd) Aliases() []string     { return []string{"view"} }
func (c *OpenCmd) Synopsis() string      { return "Open a task in the interactive screen" }
func (c *OpenCmd) Usage() string         { return "taskview open [common flags] <id>" }
func (c *OpenCmd) NeedsRepository() bool { return true }

func (c *OpenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *OpenCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	// Logs would corrupt the screen. The shared logger (backend included)
	// writes to a buffer while it is up; the buffer is replayed after.
	var logBuf bytes.Buffer
	log := commandLogger(cfg, errOut)
	prevOut := log.Out
	log.SetOutput(&logBuf)

	var (
		mu     sync.Mutex
		cmdErr error
	)
	onError := func(op string, err error) {
		if op == taskdetail.OpGetTask {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if cmdErr == nil {
			cmdErr = err
		}
	}

	model := tui.NewModel()
	dispatcher := tui.NewDispatcher()
	bg := mainloop.NewBackground()

	p := taskdetail.New(id, repo, model,
		taskdetail.WithSchedulers(bg, dispatcher),
		taskdetail.WithLogger(log),
		taskdetail.WithTimeout(cfg.Settings.Timeout),
		taskdetail.WithErrorHandler(onError),
	)

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(out),
	}, c.programOptions...)
	program := tea.NewProgram(model, opts...)
	dispatcher.Attach(program)

	_, runErr := program.Run()
	dispatcher.Stop()

	// The event loop has stopped; this goroutine owns the presenter now.
	p.Unsubscribe()
	bg.Wait()

	log.SetOutput(prevOut)
	_, _ = io.Copy(prevOut, &logBuf)

	if runErr != nil {
		if errors.Is(runErr, tea.ErrProgramKilled) || errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: terminal: %v\n", runErr)
		return exitcode.UserError
	}

	result := model.Result()
	switch {
	case result.EditTaskID != "":
		fmt.Fprintf(out, "edit with: taskview edit --title <title> --description <text> %s\n", result.EditTaskID)
	case result.Deleted && !cfg.Quiet:
		fmt.Fprintln(out, "task deleted")
	}

	mu.Lock()
	defer mu.Unlock()
	if cmdErr != nil {
		return reportBackendError(errOut, cmdErr)
	}
	return exitcode.Success
}
