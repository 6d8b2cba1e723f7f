// Package loop provides the serial event loop a page runs on. Every DOM and
// model mutation of a page happens on its loop goroutine; blocking work runs
// elsewhere and hands a continuation back to the loop.
package loop

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
)

// ErrClosed is returned when work is submitted to a closed loop.
var ErrClosed = errors.New("loop closed")

// Loop executes posted functions one at a time, in order.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	pending int
	idle    chan struct{}
	done    chan struct{}
}

// New starts a loop goroutine.
func New() *Loop {
	l := &Loop{
		idle: make(chan struct{}),
		done: make(chan struct{}),
	}
	close(l.idle)
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.exec(fn)
		l.finish()
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("loop: recovered panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// begin must be called with l.mu held.
func (l *Loop) begin() {
	if l.pending == 0 {
		l.idle = make(chan struct{})
	}
	l.pending++
}

func (l *Loop) finish() {
	l.mu.Lock()
	l.pending--
	if l.pending == 0 {
		close(l.idle)
	}
	l.mu.Unlock()
}

// Post queues fn to run on the loop. It reports false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.begin()
	l.queue = append(l.queue, fn)
	l.cond.Signal()
	return true
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from the loop goroutine.
func (l *Loop) Do(fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrClosed
	}
	<-done
	return nil
}

// Go runs work on its own goroutine. A non-nil continuation returned by work
// is posted to the loop. The loop counts as busy until the continuation has
// run.
func (l *Loop) Go(work func() func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.begin()
	l.mu.Unlock()

	go func() {
		defer l.finish()
		var deliver func()
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("loop: recovered panic in background work: %v", r)
				}
			}()
			deliver = work()
		}()
		if deliver != nil {
			l.Post(deliver)
		}
	}()
}

// Idle blocks until no posted function or background work is outstanding,
// or ctx is done.
func (l *Loop) Idle(ctx context.Context) error {
	l.mu.Lock()
	ch := l.idle
	l.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work, drains queued functions, and waits for the
// loop goroutine to exit. Background work still running is abandoned; its
// continuation is dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}
