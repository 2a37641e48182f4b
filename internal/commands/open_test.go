package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"taskview/internal/commands"
	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/logging"
	"taskview/internal/repository"
	"taskview/internal/testutil"
)

// runOpen runs the open command with keys as terminal input and no renderer.
func runOpen(t *testing.T, repo repository.Repository, keys string, cfg *config.Config) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	if cfg == nil {
		cfg = &config.Config{Dir: t.TempDir()}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(&errBuf, cfg.Debug)
	}

	cmd := &commands.OpenCmd{}
	cmd.SetProgramOptions(tea.WithInput(strings.NewReader(keys)), tea.WithoutRenderer())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code = cmd.Run(ctx, cfg, repo, []string{"42"}, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestOpenCommand_Delete(t *testing.T) {
	repo := newRepoWithTask()

	stdout, stderr, code := runOpen(t, repo, "d", nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if n := repo.CallCount(testutil.OpDelete, "42"); n != 1 {
		t.Errorf("expected 1 DeleteTask call, got %d", n)
	}
	if _, ok := repo.Task("42"); ok {
		t.Error("expected task to be deleted")
	}
	if stdout != "task deleted\n" {
		t.Errorf("expected 'task deleted\\n', got %q", stdout)
	}
}

func TestOpenCommand_DeleteQuiet(t *testing.T) {
	repo := newRepoWithTask()

	stdout, _, code := runOpen(t, repo, "d", &config.Config{Dir: t.TempDir(), Quiet: true})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestOpenCommand_CompleteThenQuit(t *testing.T) {
	repo := newRepoWithTask()

	stdout, stderr, code := runOpen(t, repo, "cq", nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if n := repo.CallCount(testutil.OpComplete, "42"); n != 1 {
		t.Errorf("expected 1 CompleteTask call, got %d", n)
	}
	task, _ := repo.Task("42")
	if !task.Completed {
		t.Error("expected task to be completed")
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestOpenCommand_CompleteBackendError(t *testing.T) {
	repo := newRepoWithTask()
	repo.CompleteTaskErr = errors.New("quota exceeded")

	_, stderr, code := runOpen(t, repo, "cq", nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if n := repo.CallCount(testutil.OpComplete, "42"); n != 1 {
		t.Errorf("expected 1 CompleteTask call, got %d", n)
	}
	if !strings.HasSuffix(stderr, "error: backend error: quota exceeded\n") {
		t.Errorf("expected backend error last, got %q", stderr)
	}
}

func TestOpenCommand_CompleteNotFound(t *testing.T) {
	repo := newRepoWithTask()
	repo.CompleteTaskErr = repository.ErrNotFound

	_, stderr, code := runOpen(t, repo, "cq", nil)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: task not found\n") {
		t.Errorf("expected not found error last, got %q", stderr)
	}
}

func TestOpenCommand_EditPrintsHint(t *testing.T) {
	repo := newRepoWithTask()

	stdout, _, code := runOpen(t, repo, "e", nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "edit with: taskview edit --title <title> --description <text> 42\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
	if n := repo.CallCount(testutil.OpSave, "42"); n != 0 {
		t.Errorf("expected no SaveTask call, got %d", n)
	}
}

func TestOpenCommand_Cancelled(t *testing.T) {
	repo := newRepoWithTask()
	var outBuf, errBuf bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &commands.OpenCmd{}
	cmd.SetProgramOptions(tea.WithInput(nil), tea.WithoutRenderer())
	code := cmd.Run(ctx, &config.Config{Dir: t.TempDir()}, repo, []string{"42"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errBuf.String() != "error: cancelled\n" {
		t.Errorf("expected 'error: cancelled\\n', got %q", errBuf.String())
	}
}

// chattyRepository logs through the run's shared logger the way a backend
// does, and records whether the line reached the error writer immediately.
type chattyRepository struct {
	*testutil.FakeRepository
	log    logrus.FieldLogger
	errOut *bytes.Buffer

	leaked bool
}

func (r *chattyRepository) DeleteTask(ctx context.Context, id string) error {
	r.log.WithField("id", id).Info("backend deleting task")
	r.leaked = r.errOut.Len() > 0
	return r.FakeRepository.DeleteTask(ctx, id)
}

func TestOpenCommand_BackendLogsHeldUntilExit(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Logger: logging.New(&errBuf, false)}
	repo := &chattyRepository{
		FakeRepository: newRepoWithTask(),
		log:            cfg.Logger,
		errOut:         &errBuf,
	}

	cmd := &commands.OpenCmd{}
	cmd.SetProgramOptions(tea.WithInput(strings.NewReader("d")), tea.WithoutRenderer())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code := cmd.Run(ctx, cfg, repo, []string{"42"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if repo.leaked {
		t.Error("backend log reached stderr while the screen was up")
	}
	if !strings.Contains(errBuf.String(), "backend deleting task") {
		t.Errorf("expected the backend log replayed after exit, got %q", errBuf.String())
	}
	if cfg.Logger.Out != &errBuf {
		t.Error("expected the logger output restored after exit")
	}
}
