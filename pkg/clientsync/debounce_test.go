package clientsync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const quiet = 50 * time.Millisecond

func newCountingDebouncer() (*TypingDebouncer, *atomic.Int32, *atomic.Int32) {
	var typed, stopped atomic.Int32
	d := NewTypingDebouncer(quiet,
		func() { typed.Add(1) },
		func() { stopped.Add(1) })
	return d, &typed, &stopped
}

func TestDebouncer_KeystrokesWithinQuietPeriodClearOnce(t *testing.T) {
	req := require.New(t)
	d, typed, stopped := newCountingDebouncer()

	// Two keystrokes inside the quiet window, then silence.
	d.Keystroke("h")
	time.Sleep(quiet / 2)
	d.Keystroke("hi")

	req.Equal(int32(2), typed.Load())
	req.Equal(int32(0), stopped.Load())

	// The window stays open until a full quiet period after the last
	// keystroke, then clears exactly once.
	time.Sleep(quiet / 2)
	req.Equal(int32(0), stopped.Load())

	req.Eventually(func() bool { return stopped.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * quiet)
	req.Equal(int32(1), stopped.Load())
}

func TestDebouncer_EmptyTextStopsImmediately(t *testing.T) {
	req := require.New(t)
	d, typed, stopped := newCountingDebouncer()

	d.Keystroke("hi")
	d.Keystroke("")

	req.Equal(int32(1), typed.Load())
	req.Equal(int32(1), stopped.Load())

	// The pending timer was cancelled; no second stop fires.
	time.Sleep(2 * quiet)
	req.Equal(int32(1), stopped.Load())
}

func TestDebouncer_StopWithoutTypingIsNoOp(t *testing.T) {
	req := require.New(t)
	d, _, stopped := newCountingDebouncer()

	d.Stop()
	req.Equal(int32(0), stopped.Load())
}

func TestDebouncer_TypingResumesAfterClear(t *testing.T) {
	req := require.New(t)
	d, typed, stopped := newCountingDebouncer()

	d.Keystroke("a")
	req.Eventually(func() bool { return stopped.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.Keystroke("b")
	req.Equal(int32(2), typed.Load())
	req.Eventually(func() bool { return stopped.Load() == 2 }, time.Second, 5*time.Millisecond)
}
