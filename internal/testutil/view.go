package testutil

import (
	"fmt"

	"taskview/internal/taskdetail"
)

// RecordingView implements taskdetail.View and records every call as a string,
// e.g. "SetLoadingIndicator(true)" or "ShowTitle(<nil>)".
// It is meant to be used from a single goroutine.
type RecordingView struct {
	Presenter taskdetail.Actions
	Active    bool
	calls     []string
}

// NewRecordingView creates an active RecordingView.
func NewRecordingView() *RecordingView {
	return &RecordingView{Active: true}
}

// Calls returns the recorded calls in order.
func (v *RecordingView) Calls() []string {
	out := make([]string, len(v.calls))
	copy(out, v.calls)
	return out
}

// Count returns how many times call was recorded.
func (v *RecordingView) Count(call string) int {
	n := 0
	for _, c := range v.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (v *RecordingView) Reset() {
	v.calls = nil
}

func (v *RecordingView) record(format string, args ...any) {
	v.calls = append(v.calls, fmt.Sprintf(format, args...))
}

func (v *RecordingView) SetPresenter(p taskdetail.Actions) { v.Presenter = p }
func (v *RecordingView) SetLoadingIndicator(active bool)   { v.record("SetLoadingIndicator(%t)", active) }
func (v *RecordingView) ShowMissingTask()                  { v.record("ShowMissingTask()") }
func (v *RecordingView) ShowTitle(title *string)           { v.record("ShowTitle(%s)", deref(title)) }
func (v *RecordingView) HideTitle()                        { v.record("HideTitle()") }
func (v *RecordingView) ShowDescription(desc *string)      { v.record("ShowDescription(%s)", deref(desc)) }
func (v *RecordingView) HideDescription()                  { v.record("HideDescription()") }
func (v *RecordingView) ShowCompletionStatus(done bool)    { v.record("ShowCompletionStatus(%t)", done) }
func (v *RecordingView) ShowEditTask(taskID string)        { v.record("ShowEditTask(%s)", taskID) }
func (v *RecordingView) ShowTaskDeleted()                  { v.record("ShowTaskDeleted()") }
func (v *RecordingView) ShowTaskMarkedComplete()           { v.record("ShowTaskMarkedComplete()") }
func (v *RecordingView) ShowTaskMarkedActive()             { v.record("ShowTaskMarkedActive()") }
func (v *RecordingView) IsActive() bool                    { return v.Active }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
