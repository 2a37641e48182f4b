package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/repository"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command: it forgets the Google token.
// oauth_client.json is kept so a later login needs no setup.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string          { return "logout" }
func (c *LogoutCmd) Aliases() []string     { return nil }
func (c *LogoutCmd) Synopsis() string      { return "Remove the stored Google token" }
func (c *LogoutCmd) Usage() string         { return "taskview logout [common flags]" }
func (c *LogoutCmd) NeedsRepository() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, repo repository.Repository, args []string, out, errOut io.Writer) int {
	err := cfg.RemoveToken()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		notify(cfg, out, "not logged in")
		return exitcode.Success
	case err != nil:
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	commandLogger(cfg, errOut).WithField("path", cfg.TokenPath()).Debug("removed token")
	if cfg.Settings.Backend == config.BackendRedis {
		notify(cfg, out, "logged out of google (the redis backend does not use it)")
		return exitcode.Success
	}
	notify(cfg, out, "logged out")
	return exitcode.Success
}

// notify prints an informational line unless --quiet is set.
func notify(cfg *config.Config, out io.Writer, msg string) {
	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
}
