package testutil

import "sync"

// ManualScheduler queues posted jobs until the test runs them.
// It implements taskdetail.Scheduler.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Post queues fn. Safe to call from any goroutine.
func (s *ManualScheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued jobs.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// RunNext runs the oldest queued job, if any, and reports whether one ran.
func (s *ManualScheduler) RunNext() bool {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	fn()
	return true
}

// RunPending runs queued jobs in FIFO order on the calling goroutine,
// including jobs posted while running. Returns the number of jobs run.
func (s *ManualScheduler) RunPending() int {
	n := 0
	for s.RunNext() {
		n++
	}
	return n
}
