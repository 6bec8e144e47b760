package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoop_RunsInPostOrder(t *testing.T) {
	l := NewLoop()
	var got []int
	for i := range 5 {
		assert.True(t, l.Post(func() { got = append(got, i) }))
	}
	l.Close()

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not drain after Close")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_ConcurrentPostersSerialized(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				l.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	done := make(chan int)
	l.Post(func() { done <- counter })
	assert.Equal(t, 800, <-done)
}

func TestLoop_PostAfterCloseRejected(t *testing.T) {
	l := NewLoop()
	l.Close()
	assert.False(t, l.Post(func() {}))
}

func TestLoop_StopsOnContext(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop ignored cancellation")
	}
}
