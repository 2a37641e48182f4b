package mainloop

import "sync"

// Background runs each posted function on its own goroutine and tracks them
// so callers can wait for outstanding work before exiting.
type Background struct {
	wg sync.WaitGroup
}

// NewBackground creates a Background executor.
func NewBackground() *Background {
	return &Background{}
}

// Post starts fn on a new goroutine.
func (b *Background) Post(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every posted function has returned.
func (b *Background) Wait() {
	b.wg.Wait()
}
