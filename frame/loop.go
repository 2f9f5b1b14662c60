// Package frame runs per-frame callbacks on a single goroutine.
//
// A Loop is both the tween.Scheduler and tween.Clock of everything it drives.
// Callbacks scheduled during a frame run on the next frame, and every callback
// of a frame sees the same timestamp. Other goroutines hand work to the loop
// with Post.
package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/matt-g-everett/ledease/tween"
)

// Loop schedules callbacks frame by frame.
type Loop struct {
	log *slog.Logger

	now     float64
	next    tween.Token
	order   []tween.Token
	pending map[tween.Token]func()
	frames  uint64

	mu     sync.Mutex
	posted []func()
}

var _ tween.Scheduler = (*Loop)(nil)
var _ tween.Clock = (*Loop)(nil)

// NewLoop creates a Loop. A nil logger uses slog.Default.
func NewLoop(log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		log:     log,
		pending: make(map[tween.Token]func()),
	}
}

// Schedule queues fn for the next frame. Loop goroutine only.
func (l *Loop) Schedule(fn func()) tween.Token {
	l.next++
	l.order = append(l.order, l.next)
	l.pending[l.next] = fn
	return l.next
}

// Cancel drops a scheduled callback. Unknown or already run tokens are
// ignored. Loop goroutine only.
func (l *Loop) Cancel(t tween.Token) {
	delete(l.pending, t)
}

// Now returns the timestamp of the current frame in milliseconds.
func (l *Loop) Now() float64 {
	return l.now
}

// Pending returns the number of callbacks waiting for the next frame.
func (l *Loop) Pending() int {
	return len(l.pending)
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Post queues fn to run on the loop goroutine at the start of the next frame.
// Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

// Tick runs one frame at time now: posted work first, then the callbacks that
// were scheduled before the frame began.
func (l *Loop) Tick(now float64) {
	if now > l.now {
		l.now = now
	}
	l.frames++

	due := l.order
	l.order = nil

	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	for _, t := range due {
		fn, ok := l.pending[t]
		if !ok {
			continue
		}
		delete(l.pending, t)
		fn()
	}
}

// Run ticks the loop every interval until ctx is done. onFrame, when non-nil,
// runs at the end of every frame with the frame timestamp.
func (l *Loop) Run(ctx context.Context, interval time.Duration, onFrame func(now float64)) error {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.log.Info("frame loop started", "interval", interval)
	defer func() { l.log.Info("frame loop stopped", "frames", l.frames) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			now := float64(t.Sub(start)) / float64(time.Millisecond)
			l.Tick(now)
			if onFrame != nil {
				onFrame(l.now)
			}
		}
	}
}
