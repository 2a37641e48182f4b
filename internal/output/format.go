// Package output provides the line-oriented task detail view used by
// one-shot CLI commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"taskview/internal/taskdetail"
)

// Outcome is the terminal state a DetailView reached.
type Outcome int

const (
	// Pending means no terminal state was reached yet.
	Pending Outcome = iota
	Shown
	Missing
	EditRequested
	Deleted
	MarkedComplete
	MarkedActive
)

// DetailView implements taskdetail.View by printing to writers.
// Task fields go to out; "error: task not found" goes to errOut.
// Confirmations are suppressed when quiet is set.
type DetailView struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
	log    logrus.FieldLogger

	presenter taskdetail.Actions
	closed    bool
	outcome   Outcome
	editID    string
	onDone    func(Outcome)
}

// NewDetailView creates a DetailView. onDone, if set, is called once the
// view reaches a terminal state.
func NewDetailView(out, errOut io.Writer, quiet bool, log logrus.FieldLogger, onDone func(Outcome)) *DetailView {
	return &DetailView{
		out:    out,
		errOut: errOut,
		quiet:  quiet,
		log:    log,
		onDone: onDone,
	}
}

// Outcome returns the terminal state reached, or Pending.
func (v *DetailView) Outcome() Outcome { return v.outcome }

// EditID returns the task ID passed to ShowEditTask.
func (v *DetailView) EditID() string { return v.editID }

// Presenter returns the presenter registered with the view.
func (v *DetailView) Presenter() taskdetail.Actions { return v.presenter }

// Close marks the view inactive. Later load results are dropped by the presenter.
func (v *DetailView) Close() { v.closed = true }

func (v *DetailView) SetPresenter(p taskdetail.Actions) { v.presenter = p }
func (v *DetailView) IsActive() bool                    { return !v.closed }

func (v *DetailView) SetLoadingIndicator(active bool) {
	if v.log != nil {
		v.log.WithField("loading", active).Debug("loading indicator")
	}
}

func (v *DetailView) ShowMissingTask() {
	fmt.Fprintln(v.errOut, "error: task not found")
	v.finish(Missing)
}

func (v *DetailView) ShowTitle(title *string) {
	var s string
	if title != nil {
		s = *title
	}
	fmt.Fprintf(v.out, "Title:       %s\n", normalizeTitle(s))
}

func (v *DetailView) HideTitle() {}

func (v *DetailView) ShowDescription(description *string) {
	if description == nil {
		fmt.Fprintln(v.out, "Description: (none)")
		return
	}
	FormatDescription(v.out, *description)
}

func (v *DetailView) HideDescription() {}

func (v *DetailView) ShowCompletionStatus(completed bool) {
	fmt.Fprintf(v.out, "Status:      %s\n", StatusLabel(completed))
	v.finish(Shown)
}

func (v *DetailView) ShowEditTask(taskID string) {
	v.editID = taskID
	v.finish(EditRequested)
}

func (v *DetailView) ShowTaskDeleted() {
	v.confirm("task deleted")
	v.finish(Deleted)
}

func (v *DetailView) ShowTaskMarkedComplete() {
	v.confirm("task marked complete")
	v.finish(MarkedComplete)
}

func (v *DetailView) ShowTaskMarkedActive() {
	v.confirm("task marked active")
	v.finish(MarkedActive)
}

func (v *DetailView) confirm(msg string) {
	if !v.quiet {
		fmt.Fprintln(v.out, msg)
	}
}

func (v *DetailView) finish(o Outcome) {
	if v.outcome != Pending {
		return
	}
	v.outcome = o
	if v.onDone != nil {
		v.onDone(o)
	}
}

// StatusLabel returns the display label for a completion flag.
func StatusLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "active"
}

// FormatDescription writes a description block. Continuation lines are
// indented to line up under the first.
func FormatDescription(w io.Writer, description string) {
	description = strings.ReplaceAll(description, "\r\n", "\n")
	lines := strings.Split(description, "\n")
	fmt.Fprintf(w, "Description: %s\n", lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "             %s\n", line)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
