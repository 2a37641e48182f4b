package commands

import (
	"context"
	"flag"
	"io"

	"taskview/internal/config"
	"taskview/internal/repository"
	"taskview/internal/taskdetail"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string          { return "rm" }
func (c *RmCmd) Aliases() []string     { return []string{"delete"} }
func (c *RmCmd) Synopsis() string      { return "Delete a task" }
func (c *RmCmd) Usage() string         { return "taskview rm [common flags] <id>" }
func (c *RmCmd) NeedsRepository() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	return runTaskAction(ctx, cfg, repo, args, out, errOut, (*taskdetail.Presenter).DeleteTask)
}
