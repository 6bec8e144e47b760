package session

import (
	"fmt"
	"time"

	"LocalSketch/internal/state"
)

// Ticker is the part of time.Ticker the advance timer uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Timer counts down an interval in one-second ticks and fires when it
// reaches zero, then starts over. At most one countdown runs at a time.
//
// Start, Stop and the tick handling run on the owner's event loop; the
// goroutine started by Start only waits on the ticker and posts ticks.
type Timer struct {
	newTicker TickerFunc
	post      func(func())

	// OnTick reports the remaining seconds after every tick.
	OnTick func(remaining int)
	// OnFire is called when the countdown reaches zero.
	OnFire func()

	interval  int
	remaining int
	gen       uint64
	stop      chan struct{}
}

// NewTimer builds a stopped timer. post schedules a function on the owner's
// event loop.
func NewTimer(newTicker TickerFunc, post func(func())) *Timer {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Timer{newTicker: newTicker, post: post}
}

// Start cancels any running countdown and begins a new one.
func (t *Timer) Start(intervalSeconds int) error {
	if intervalSeconds < 1 {
		return fmt.Errorf("%w: interval must be at least 1 second, got %d", state.ErrValidation, intervalSeconds)
	}
	t.Stop()

	t.gen++
	t.interval = intervalSeconds
	t.remaining = intervalSeconds
	t.stop = make(chan struct{})

	gen, stop := t.gen, t.stop
	tk := t.newTicker(time.Second)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C():
				t.post(func() { t.tick(gen) })
			}
		}
	}()
	return nil
}

// Stop cancels the countdown. Stopping a stopped timer does nothing.
func (t *Timer) Stop() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
	t.remaining = 0
}

func (t *Timer) Active() bool {
	return t.stop != nil
}

// Remaining is the number of seconds until the next fire.
func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) Interval() int {
	return t.interval
}

func (t *Timer) tick(gen uint64) {
	// Ticks already queued when the timer was restarted or stopped.
	if gen != t.gen || t.stop == nil {
		return
	}
	t.remaining--
	if t.remaining <= 0 {
		if t.OnFire != nil {
			t.OnFire()
		}
		if gen != t.gen || t.stop == nil {
			return
		}
		t.remaining = t.interval
	}
	if t.OnTick != nil {
		t.OnTick(t.remaining)
	}
}

// FormatRemaining renders seconds as "mm:ss"; a stopped timer shows "--:--".
func FormatRemaining(seconds int, active bool) string {
	if !active {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
