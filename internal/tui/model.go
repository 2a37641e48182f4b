// Package tui implements the interactive task detail screen with bubbletea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskview/internal/taskdetail"
)

var (
	appStyle       = lipgloss.NewStyle().Padding(1, 2)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Padding(0, 1)
	openBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	descStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

// Result is how the screen ended.
type Result struct {
	// EditTaskID is set when the user asked to edit the task.
	EditTaskID string

	// Deleted is set when the user deleted the task.
	Deleted bool
}

// runMsg carries a closure posted by the Dispatcher; Update runs it.
type runMsg func()

type subscribeMsg struct{}

// Model is the bubbletea model for the task detail screen.
// It implements taskdetail.View; Update is the UI goroutine the presenter runs on.
type Model struct {
	presenter taskdetail.Actions
	keys      keyMap
	help      help.Model
	spinner   spinner.Model

	loading     bool
	missing     bool
	title       *string
	titleHidden bool
	desc        *string
	descHidden  bool
	hasStatus   bool
	completed   bool
	flash       string

	quitting bool
	result   Result
	cmds     []tea.Cmd
	width    int
}

// NewModel creates the screen. The presenter registers itself through SetPresenter.
func NewModel() *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return &Model{
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
}

// Result returns how the screen ended.
func (m *Model) Result() Result { return m.result }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return subscribeMsg{} }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case subscribeMsg:
		if m.presenter != nil {
			m.presenter.Subscribe()
		}

	case runMsg:
		msg()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.cmds = append(m.cmds, cmd)
		}

	case tea.KeyMsg:
		for _, k := range splitKeys(msg) {
			m.handleKey(k)
		}
	}

	return m, m.flush()
}

// splitKeys breaks a run of typed runes (read together from a fast typist
// or a pipe) into one key press per rune. Pastes are kept whole.
func splitKeys(msg tea.KeyMsg) []tea.KeyMsg {
	if msg.Type != tea.KeyRunes || msg.Paste || len(msg.Runes) < 2 {
		return []tea.KeyMsg{msg}
	}
	keys := make([]tea.KeyMsg, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: msg.Alt})
	}
	return keys
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	if m.presenter == nil || m.quitting {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.presenter.Unsubscribe()
		m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		m.flash = ""
		m.presenter.Subscribe()
	case key.Matches(msg, m.keys.Edit):
		m.presenter.EditTask()
	case key.Matches(msg, m.keys.Delete):
		m.presenter.DeleteTask()
	case key.Matches(msg, m.keys.Complete):
		m.presenter.CompleteTask()
	case key.Matches(msg, m.keys.Activate):
		m.presenter.ActivateTask()
	}
}

func (m *Model) quit() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.cmds = append(m.cmds, tea.Quit)
}

func (m *Model) flush() tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Task details"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading task...")
		b.WriteString("\n")
	case m.missing:
		b.WriteString(errorStyle.Render("No task to show."))
		b.WriteString("\n")
	default:
		m.renderTask(&b)
	}

	if m.flash != "" {
		b.WriteString("\n" + flashStyle.Render(m.flash) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func (m *Model) renderTask(b *strings.Builder) {
	if !m.titleHidden {
		title := "(untitled)"
		if m.title != nil && strings.TrimSpace(*m.title) != "" {
			title = *m.title
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
	}
	if !m.descHidden {
		if m.desc == nil {
			b.WriteString(dimStyle.Render("No description"))
		} else {
			b.WriteString(descStyle.Render(*m.desc))
		}
		b.WriteString("\n\n")
	}
	if m.hasStatus {
		if m.completed {
			b.WriteString(doneBadgeStyle.Render("completed"))
		} else {
			b.WriteString(openBadgeStyle.Render("active"))
		}
		b.WriteString("\n")
	}
}
