package session

import (
	"context"
	"sync"
)

// Loop runs posted functions one at a time on a single goroutine, so the
// session behind it never sees interleaved events. Producers (websocket
// reader, timer) post; Run consumes.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	signal chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		queue:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Post enqueues fn. It returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Close stops accepting work. Run drains what is queued and returns.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Run executes posted functions until ctx is done or the loop is closed and
// drained.
func (l *Loop) Run(ctx context.Context) {
	for {
		fn, ok, closed := l.next()
		if ok {
			fn()
			continue
		}
		if closed {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-l.signal:
		}
	}
}

func (l *Loop) next() (fn func(), ok bool, closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false, l.closed
	}
	fn = l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true, l.closed
}
