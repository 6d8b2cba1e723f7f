package state

import (
	"errors"
	"sync"
)

// ErrReentrantSet is returned when a subscriber mutates the model that is
// currently notifying it.
var ErrReentrantSet = errors.New("state: set during change notification")

// Subscription is a handle to a registered observer.
type Subscription struct {
	once    sync.Once
	release func()
}

// Unsubscribe removes the observer. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// observers keeps callbacks in subscription order.
type observers[T any] struct {
	next int
	fns  map[int]func(T)
	ids  []int
}

func (o *observers[T]) add(fn func(T)) *Subscription {
	if o.fns == nil {
		o.fns = make(map[int]func(T))
	}
	id := o.next
	o.next++
	o.fns[id] = fn
	o.ids = append(o.ids, id)
	return &Subscription{release: func() { o.remove(id) }}
}

func (o *observers[T]) remove(id int) {
	delete(o.fns, id)
	for i, v := range o.ids {
		if v == id {
			o.ids = append(o.ids[:i:i], o.ids[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) len() int { return len(o.fns) }

// notify calls every observer registered when notification starts and still
// registered when its turn comes.
func (o *observers[T]) notify(v T) {
	ids := append([]int(nil), o.ids...)
	for _, id := range ids {
		if fn, ok := o.fns[id]; ok {
			fn(v)
		}
	}
}

// Scope collects the subscriptions and cleanup functions of one owner so
// they can be released together.
type Scope struct {
	subs     []*Subscription
	cleanups []func()
	released bool
}

// Add registers a subscription with the scope. Subscriptions added after
// Release are released immediately.
func (s *Scope) Add(sub *Subscription) *Subscription {
	if s.released {
		sub.Unsubscribe()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Defer registers fn to run on Release, in reverse order of registration.
func (s *Scope) Defer(fn func()) {
	if s.released {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// Release unsubscribes everything held by the scope.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.subs = nil
	s.cleanups = nil
}

// Released reports whether Release has been called.
func (s *Scope) Released() bool { return s.released }

// Len returns the number of live subscriptions held.
func (s *Scope) Len() int { return len(s.subs) }
