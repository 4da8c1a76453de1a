package clientsync

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long after the last keystroke the sender waits
// before emitting stopTyping.
const DefaultQuietPeriod = 1000 * time.Millisecond

// TypingDebouncer implements the sender side of the typing protocol: emit
// typing while text is non-empty, and schedule stopTyping after a fixed quiet
// period, resetting the timer on every keystroke. The receiver therefore sees
// one continuous typing window and exactly one clear.
type TypingDebouncer struct {
	mu     sync.Mutex
	quiet  time.Duration
	onType func()
	onStop func()
	timer  *time.Timer
	active bool
}

func NewTypingDebouncer(quiet time.Duration, onType, onStop func()) *TypingDebouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &TypingDebouncer{quiet: quiet, onType: onType, onStop: onStop}
}

// Keystroke is called on every input change with the current text. Empty
// text stops immediately; non-empty text emits typing and re-arms the quiet
// timer.
func (d *TypingDebouncer) Keystroke(text string) {
	if text == "" {
		d.Stop()
		return
	}

	d.mu.Lock()
	d.active = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.expire)
	d.mu.Unlock()

	d.onType()
}

// Stop cancels the timer and emits stopTyping if a typing window was open.
func (d *TypingDebouncer) Stop() {
	d.mu.Lock()
	wasActive := d.active
	d.active = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if wasActive {
		d.onStop()
	}
}

func (d *TypingDebouncer) expire() {
	d.mu.Lock()
	wasActive := d.active
	d.active = false
	d.timer = nil
	d.mu.Unlock()

	if wasActive {
		d.onStop()
	}
}
