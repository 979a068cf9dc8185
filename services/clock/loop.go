package clock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop runs every posted function and every timer callback on a single
// goroutine. Code executed by the loop must not call Do, it would wait on
// itself.
type Loop struct {
	queue   chan func()
	done    chan struct{}
	once    sync.Once
	logger  *zap.Logger
	running atomic.Bool
}

// NewLoop creates a loop with a queue of the given capacity. Run must be
// called before anything posted is executed.
func NewLoop(logger *zap.Logger, capacity int) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		queue:  make(chan func(), capacity),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		l.logger.Warn("event loop already running")
		return
	}
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case fn := <-l.queue:
			l.exec(fn)
		case <-ctx.Done():
			l.logger.Info("event loop stopping", zap.Error(ctx.Err()))
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("recovered panic in event loop", zap.Any("panic", r))
		}
	}()
	fn()
}

// Post enqueues fn without waiting for it to run. It reports false when
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if l.stopped() {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.stopped() {
		return ErrLoopStopped
	}
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.queue <- task:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Now returns wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the loop once d has elapsed. A callback whose timer
// is stopped before the loop reaches it is discarded, even if the
// underlying runtime timer already fired.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.stopped.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// Every runs fn on the loop at each interval until the returned timer is
// stopped.
func (l *Loop) Every(interval time.Duration, fn func()) Timer {
	t := &loopTimer{
		ticker: time.NewTicker(interval),
		quit:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				if !l.Post(func() {
					if t.stopped.Load() {
						return
					}
					fn()
				}) {
					return
				}
			case <-t.quit:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}

type loopTimer struct {
	stopped atomic.Bool
	timer   *time.Timer
	ticker  *time.Ticker
	quit    chan struct{}
}

func (t *loopTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.ticker != nil {
		t.ticker.Stop()
		close(t.quit)
	}
	return true
}
