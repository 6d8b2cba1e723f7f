package loop

import (
	"context"
	"testing"
	"time"
)

func TestPostRunsInOrder(t *testing.T) {
	t.Parallel()

	l := New()
	defer l.Close()

	var got []int
	for i := 0; i < 5; i++ {
		l.Post(func() { got = append(got, i) })
	}
	if err := l.Do(func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got = %v, want 0..4 in order", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("len(got) = %d, want 5", len(got))
	}
}

func TestGoDeliversOnLoopAndIdleWaits(t *testing.T) {
	t.Parallel()

	l := New()
	defer l.Close()

	release := make(chan struct{})
	delivered := false
	l.Go(func() func() {
		<-release
		return func() { delivered = true }
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Idle(ctx); err == nil {
		t.Fatal("Idle returned while background work was blocked")
	}

	close(release)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := l.Idle(ctx2); err != nil {
		t.Fatalf("Idle: %v", err)
	}
	var seen bool
	if err := l.Do(func() { seen = delivered }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !seen {
		t.Error("continuation did not run")
	}
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	t.Parallel()

	l := New()
	defer l.Close()

	l.Post(func() { panic("boom") })
	ran := false
	if err := l.Do(func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Error("loop stopped after panic")
	}
}

func TestClosedLoopRejectsWork(t *testing.T) {
	t.Parallel()

	l := New()
	l.Close()
	if l.Post(func() {}) {
		t.Error("Post on closed loop = true")
	}
	if err := l.Do(func() {}); err != ErrClosed {
		t.Errorf("Do on closed loop = %v, want ErrClosed", err)
	}
	l.Close()
}
