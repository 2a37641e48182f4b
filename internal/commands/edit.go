package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/output"
	"taskview/internal/repository"
	"taskview/internal/taskdetail"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a flag value that remembers whether it was set, so
// "--description ''" can clear a field.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { _ = c.title.Set(title) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(description string) { _ = c.description.Set(description) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string {
	return "taskview edit [common flags] [--title <title>] [--description <text>] <id>"
}
func (c *EditCmd) NeedsRepository() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	// The presenter decides whether the task can be edited at all.
	res := runSession(ctx, cfg, repo, id, out, errOut, (*taskdetail.Presenter).EditTask)
	if res.outcome != output.EditRequested {
		return res.exitCode(errOut)
	}

	ctx, cancel := commandContext(ctx, cfg)
	defer cancel()

	task, err := repo.GetTask(ctx, res.editID)
	if err != nil {
		return reportBackendError(errOut, err)
	}
	if task == nil {
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	}

	if c.title.set {
		task.Title = repository.String(c.title.value)
	}
	if c.description.set {
		task.Description = repository.String(c.description.value)
	}

	if _, err := repo.SaveTask(ctx, *task); err != nil {
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "task updated")
	}
	return exitcode.Success
}

// commandContext bounds a direct repository call by the configured timeout.
func commandContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Settings.Timeout <= 0 {
		return context.WithTimeout(ctx, taskdetail.DefaultCommandTimeout)
	}
	return context.WithTimeout(ctx, cfg.Settings.Timeout)
}
