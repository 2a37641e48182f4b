package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/repository"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description optionalString
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(description string) { _ = c.description.Set(description) }

func (c *AddCmd) Name() string          { return "add" }
func (c *AddCmd) Aliases() []string     { return []string{"create"} }
func (c *AddCmd) Synopsis() string      { return "Create a task" }
func (c *AddCmd) Usage() string         { return "taskview add [common flags] [--description <text>] <title...>" }
func (c *AddCmd) NeedsRepository() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

// Run creates the task and prints its ID.
func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task := repository.Task{Title: repository.String(title)}
	if c.description.set {
		task.Description = repository.String(c.description.value)
	}

	ctx, cancel := commandContext(ctx, cfg)
	defer cancel()

	saved, err := repo.SaveTask(ctx, task)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	fmt.Fprintln(out, saved.ID)
	return exitcode.Success
}
