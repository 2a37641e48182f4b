package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"taskview/internal/taskdetail"
)

// The methods below implement taskdetail.View. They only record state;
// rendering happens in Model.View.

func (m *Model) SetPresenter(p taskdetail.Actions) { m.presenter = p }
func (m *Model) IsActive() bool                    { return !m.quitting }

func (m *Model) SetLoadingIndicator(active bool) {
	if active && !m.loading {
		m.cmds = append(m.cmds, m.spinner.Tick)
	}
	m.loading = active
}

func (m *Model) ShowMissingTask() {
	m.missing = true
}

func (m *Model) ShowTitle(title *string) {
	m.missing = false
	m.title = title
	m.titleHidden = false
}

func (m *Model) HideTitle() {
	m.missing = false
	m.title = nil
	m.titleHidden = true
}

func (m *Model) ShowDescription(description *string) {
	m.desc = description
	m.descHidden = false
}

func (m *Model) HideDescription() {
	m.desc = nil
	m.descHidden = true
}

func (m *Model) ShowCompletionStatus(completed bool) {
	m.hasStatus = true
	m.completed = completed
}

func (m *Model) ShowEditTask(taskID string) {
	m.result.EditTaskID = taskID
	m.quit()
}

func (m *Model) ShowTaskDeleted() {
	m.result.Deleted = true
	m.quit()
}

func (m *Model) ShowTaskMarkedComplete() {
	m.completed = true
	m.flash = "Task marked complete"
}

func (m *Model) ShowTaskMarkedActive() {
	m.completed = false
	m.flash = "Task marked active"
}

// Dispatcher is the UI Scheduler for a running program: posted closures
// are delivered as messages and run inside Update, in posting order.
// A single pump goroutine feeds the program from a FIFO queue.
type Dispatcher struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	done  chan struct{}
	stop  sync.Once
}

// NewDispatcher creates a Dispatcher. Closures posted before Attach are
// held until a program is attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Attach sets the program closures are sent to and starts the pump.
// Call once, before Run.
func (d *Dispatcher) Attach(p *tea.Program) {
	go d.pump(p)
}

// Stop ends the pump. Closures still queued are dropped. Call after the
// program has exited.
func (d *Dispatcher) Stop() {
	d.stop.Do(func() { close(d.done) })
}

// Post implements taskdetail.Scheduler. It never blocks.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
	d.signal()
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) next() func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil
	}
	fn := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return fn
}

// pump sends queued closures one at a time. Send blocks until the event
// loop takes the message, or returns at once after the program exits.
func (d *Dispatcher) pump(p *tea.Program) {
	for {
		if fn := d.next(); fn != nil {
			p.Send(runMsg(fn))
			continue
		}
		select {
		case <-d.done:
			return
		case <-d.wake:
		}
	}
}
