package frame

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/ledease/tween"
)

func TestLoop_ScheduleRunsNextFrame(t *testing.T) {
	l := NewLoop(nil)
	var got []int

	l.Schedule(func() { got = append(got, 1) })
	l.Schedule(func() { got = append(got, 2) })
	assert.Equal(t, 2, l.Pending())
	assert.Empty(t, got)

	l.Tick(16)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_ScheduledDuringFrameWaits(t *testing.T) {
	l := NewLoop(nil)
	calls := 0

	var again func()
	again = func() {
		calls++
		l.Schedule(again)
	}
	l.Schedule(again)

	l.Tick(16)
	assert.Equal(t, 1, calls)
	l.Tick(32)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, l.Pending())
}

func TestLoop_Cancel(t *testing.T) {
	l := NewLoop(nil)
	calls := 0

	tok := l.Schedule(func() { calls++ })
	l.Cancel(tok)
	l.Cancel(tok)
	l.Cancel(tween.Token(999))

	l.Tick(16)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_CancelLaterCallbackInSameFrame(t *testing.T) {
	l := NewLoop(nil)
	var second tween.Token
	ran := false

	l.Schedule(func() { l.Cancel(second) })
	second = l.Schedule(func() { ran = true })

	l.Tick(16)
	assert.False(t, ran)
}

func TestLoop_TokensAreUnique(t *testing.T) {
	l := NewLoop(nil)
	seen := make(map[tween.Token]bool)
	for i := 0; i < 100; i++ {
		tok := l.Schedule(func() {})
		assert.NotEqual(t, tween.Token(0), tok)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestLoop_NowIsFrameTimestamp(t *testing.T) {
	l := NewLoop(nil)
	var seen []float64

	l.Schedule(func() { seen = append(seen, l.Now()) })
	l.Schedule(func() { seen = append(seen, l.Now()) })
	l.Tick(33)

	assert.Equal(t, []float64{33, 33}, seen)

	// Time never goes backwards
	l.Tick(20)
	assert.Equal(t, 33.0, l.Now())
	assert.Equal(t, uint64(2), l.Frames())
}

func TestLoop_PostRunsBeforeCallbacks(t *testing.T) {
	l := NewLoop(nil)
	var got []string

	l.Schedule(func() { got = append(got, "scheduled") })
	l.Post(func() { got = append(got, "posted") })
	l.Post(nil)

	l.Tick(16)
	assert.Equal(t, []string{"posted", "scheduled"}, got)
}

func TestLoop_PostConcurrent(t *testing.T) {
	l := NewLoop(nil)
	const goroutines = 20
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { count++ })
		}()
	}
	wg.Wait()

	l.Tick(16)
	assert.Equal(t, goroutines, count)
}

func TestLoop_DrivesTweenValue(t *testing.T) {
	l := NewLoop(nil)
	v, err := tween.NewValue(l, l, tween.Options{Value: tween.Float(0), Easing: "linear", Force: 1, Precision: 1})
	require.NoError(t, err)

	require.NoError(t, v.To(3))
	for i := 1; l.Pending() > 0; i++ {
		require.Less(t, i, 10)
		l.Tick(float64(i * 16))
	}

	assert.Equal(t, 3.0, v.Value())
	assert.False(t, v.IsRunning())
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())

	frames := make(chan float64, 100)
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, time.Millisecond, func(now float64) {
			select {
			case frames <- now:
			default:
			}
		})
	}()

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame ran")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
