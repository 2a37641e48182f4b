package commands

import (
	"context"
	"flag"
	"io"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/repository"
	"taskview/internal/taskdetail"
)

func init() {
	Register(&DoneCmd{})
	Register(&ActivateCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string          { return "done" }
func (c *DoneCmd) Aliases() []string     { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string      { return "Mark a task complete" }
func (c *DoneCmd) Usage() string         { return "taskview done [common flags] <id>" }
func (c *DoneCmd) NeedsRepository() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	return runTaskAction(ctx, cfg, repo, args, out, errOut, (*taskdetail.Presenter).CompleteTask)
}

// ActivateCmd implements the activate command.
type ActivateCmd struct{}

func (c *ActivateCmd) Name() string          { return "activate" }
func (c *ActivateCmd) Aliases() []string     { return []string{"undo"} }
func (c *ActivateCmd) Synopsis() string      { return "Mark a completed task active again" }
func (c *ActivateCmd) Usage() string         { return "taskview activate [common flags] <id>" }
func (c *ActivateCmd) NeedsRepository() bool { return true }

func (c *ActivateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ActivateCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	return runTaskAction(ctx, cfg, repo, args, out, errOut, (*taskdetail.Presenter).ActivateTask)
}

// runTaskAction is the shared implementation for commands that invoke one
// presenter action on a single task.
func runTaskAction(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer, action func(*taskdetail.Presenter)) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	res := runSession(ctx, cfg, repo, id, out, errOut, action)
	return res.exitCode(errOut)
}
