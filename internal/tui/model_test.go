package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskview/internal/repository"
	"taskview/internal/taskdetail"
	"taskview/internal/testutil"
)

// msgQueue stands in for Dispatcher: posted closures become runMsgs that the
// test feeds through Update.
type msgQueue struct {
	msgs []tea.Msg
}

func (q *msgQueue) Post(fn func()) { q.msgs = append(q.msgs, runMsg(fn)) }

type screen struct {
	m    *Model
	repo *testutil.FakeRepository
	bg   *testutil.ManualScheduler
	ui   *msgQueue
}

func newScreen(t *testing.T, taskID string) *screen {
	t.Helper()

	s := &screen{
		m:    NewModel(),
		repo: testutil.NewFakeRepository(),
		bg:   testutil.NewManualScheduler(),
		ui:   &msgQueue{},
	}
	taskdetail.New(taskID, s.repo, s.m, taskdetail.WithSchedulers(s.bg, s.ui))
	return s
}

// settle runs background work and delivers the results through Update.
func (s *screen) settle() {
	s.bg.RunPending()
	msgs := s.ui.msgs
	s.ui.msgs = nil
	for _, msg := range msgs {
		s.m.Update(msg)
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// isQuit reports whether cmd is tea.Quit.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_LoadsTask(t *testing.T) {
	s := newScreen(t, "42")
	s.repo.AddTask(repository.Task{
		ID:          "42",
		Title:       repository.String("Buy milk"),
		Description: repository.String(""),
	})

	_, cmd := s.m.Update(subscribeMsg{})
	if !s.m.loading {
		t.Fatal("expected loading state after subscribe")
	}
	if cmd == nil {
		t.Error("expected a spinner tick command while loading")
	}
	if !strings.Contains(s.m.View(), "Loading task") {
		t.Errorf("expected loading text, got:\n%s", s.m.View())
	}

	s.settle()

	if s.m.loading {
		t.Error("expected loading to finish")
	}
	view := s.m.View()
	if !strings.Contains(view, "Buy milk") {
		t.Errorf("expected title in view, got:\n%s", view)
	}
	if !s.m.descHidden {
		t.Error("expected empty description to be hidden")
	}
	if strings.Contains(view, "No description") {
		t.Errorf("hidden description should not render a placeholder:\n%s", view)
	}
	if !strings.Contains(view, "active") {
		t.Errorf("expected status badge, got:\n%s", view)
	}
}

func TestModel_MissingTask(t *testing.T) {
	s := newScreen(t, "7")

	s.m.Update(subscribeMsg{})
	s.settle()

	if !s.m.missing {
		t.Fatal("expected missing state")
	}
	if !strings.Contains(s.m.View(), "No task to show") {
		t.Errorf("expected missing task text, got:\n%s", s.m.View())
	}
}

func TestModel_CompleteKey(t *testing.T) {
	s := newScreen(t, "7")
	s.repo.AddTask(repository.Task{ID: "7", Title: repository.String("Walk dog")})
	s.m.Update(subscribeMsg{})
	s.settle()

	_, cmd := s.m.Update(keyPress('c'))
	if isQuit(cmd) {
		t.Fatal("complete should not quit")
	}
	s.settle()

	if n := s.repo.CallCount(testutil.OpComplete, "7"); n != 1 {
		t.Errorf("expected 1 CompleteTask call, got %d", n)
	}
	if !s.m.completed {
		t.Error("expected completed badge")
	}
	if !strings.Contains(s.m.View(), "Task marked complete") {
		t.Errorf("expected confirmation, got:\n%s", s.m.View())
	}

	s.m.Update(keyPress('a'))
	s.settle()
	if s.m.completed {
		t.Error("expected active badge after activate")
	}
	if n := s.repo.CallCount(testutil.OpActivate, "7"); n != 1 {
		t.Errorf("expected 1 ActivateTask call, got %d", n)
	}
}

func TestModel_EditQuitsWithResult(t *testing.T) {
	s := newScreen(t, "7")

	_, cmd := s.m.Update(keyPress('e'))

	if !isQuit(cmd) {
		t.Fatal("expected edit to quit the screen")
	}
	if s.m.Result().EditTaskID != "7" {
		t.Errorf("expected edit target 7, got %q", s.m.Result().EditTaskID)
	}
	if s.m.IsActive() {
		t.Error("expected the view to be inactive after quitting")
	}
}

func TestModel_DeleteQuitsWithResult(t *testing.T) {
	s := newScreen(t, "7")
	s.repo.AddTask(repository.Task{ID: "7"})

	_, cmd := s.m.Update(keyPress('d'))
	s.settle()

	if !isQuit(cmd) {
		t.Fatal("expected delete to quit the screen")
	}
	if !s.m.Result().Deleted {
		t.Error("expected deleted result")
	}
	if _, ok := s.repo.Task("7"); ok {
		t.Error("expected task to be deleted")
	}
}

func TestModel_TypedRunesSplitIntoKeys(t *testing.T) {
	s := newScreen(t, "7")
	s.repo.AddTask(repository.Task{ID: "7"})

	// A fast typist or a pipe delivers "ce" as one message.
	_, cmd := s.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ce")})
	s.settle()

	if !isQuit(cmd) {
		t.Fatal("expected edit to quit the screen")
	}
	if n := s.repo.CallCount(testutil.OpComplete, "7"); n != 1 {
		t.Errorf("expected 1 CompleteTask call, got %d", n)
	}
	if s.m.Result().EditTaskID != "7" {
		t.Errorf("expected edit target 7, got %q", s.m.Result().EditTaskID)
	}

	// Keys after quitting are ignored.
	s.m.Update(keyPress('d'))
	s.settle()
	if n := s.repo.CallCount(testutil.OpDelete, "7"); n != 0 {
		t.Errorf("expected no DeleteTask call after quit, got %d", n)
	}
}

func TestModel_PasteIsNotSplit(t *testing.T) {
	s := newScreen(t, "7")

	_, cmd := s.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dq"), Paste: true})
	s.settle()

	if isQuit(cmd) {
		t.Fatal("a paste should not trigger key bindings")
	}
	if n := s.repo.CallCount(testutil.OpDelete, "7"); n != 0 {
		t.Errorf("expected no DeleteTask call, got %d", n)
	}
}

func TestModel_QuitDropsInFlightLoad(t *testing.T) {
	s := newScreen(t, "42")
	s.repo.AddTask(repository.Task{ID: "42", Title: repository.String("Buy milk")})

	s.m.Update(subscribeMsg{})
	_, cmd := s.m.Update(keyPress('q'))
	if !isQuit(cmd) {
		t.Fatal("expected quit command")
	}
	s.settle()

	if s.m.title != nil {
		t.Errorf("expected no title after quit, got %q", *s.m.title)
	}
}

func TestModel_ReloadSupersedesLoad(t *testing.T) {
	s := newScreen(t, "42")
	s.repo.AddTask(repository.Task{ID: "42", Title: repository.String("Buy milk")})

	s.m.Update(subscribeMsg{})
	s.m.Update(keyPress('r'))
	s.settle()

	if n := s.repo.CallCount(testutil.OpGet, "42"); n != 2 {
		t.Errorf("expected 2 GetTask calls, got %d", n)
	}
	if s.m.loading {
		t.Error("expected loading to finish")
	}
	if s.m.title == nil || *s.m.title != "Buy milk" {
		t.Errorf("expected title from the reload, got %v", s.m.title)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	s := newScreen(t, "42")

	s.m.Update(keyPress('?'))

	if !s.m.help.ShowAll {
		t.Error("expected full help after ?")
	}
	if !strings.Contains(s.m.View(), "reload") {
		t.Errorf("expected reload binding in full help, got:\n%s", s.m.View())
	}
}

func TestDispatcher_RunsClosuresInPostingOrder(t *testing.T) {
	const n = 500

	m := NewModel()
	d := NewDispatcher()
	defer d.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)

	// got is only touched inside Update.
	var got []int
	post := func(i int) { d.Post(func() { got = append(got, i) }) }

	// Half are queued before the program is attached, half race with it.
	for i := 0; i < n/2; i++ {
		post(i)
	}
	d.Attach(program)
	go func() {
		for i := n / 2; i < n; i++ {
			post(i)
		}
		d.Post(m.quit)
	}()

	if _, err := program.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got) != n {
		t.Fatalf("ran %d closures, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("closure %d ran at position %d", v, i)
		}
	}
}

func TestDispatcher_PostAfterStopDoesNotBlock(t *testing.T) {
	d := NewDispatcher()
	d.Stop()
	d.Stop()

	done := make(chan struct{})
	go func() {
		d.Post(func() { t.Error("closure ran without a program") })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked")
	}
}
