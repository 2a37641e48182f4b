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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string          { return "show" }
func (c *ShowCmd) Aliases() []string     { return []string{"get"} }
func (c *ShowCmd) Synopsis() string      { return "Print a task" }
func (c *ShowCmd) Usage() string         { return "taskview show [common flags] <id>" }
func (c *ShowCmd) NeedsRepository() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	res := runSession(ctx, cfg, repo, id, out, errOut, (*taskdetail.Presenter).Subscribe)
	return res.exitCode(errOut)
}
