package notify

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultCooldown is the suppression window opened by every accepted change
// event, long enough to swallow echoed or rapid-fire signals.
const DefaultCooldown = 100 * time.Millisecond

// Debounce is the process-wide cooldown gate in front of clipboard-change
// handling. The clipboard signal fires identically for external copies and
// for the monitor's own writes; the gate keeps the monitor from reacting to
// its own echo or to duplicate signals.
//
// Built on a rate.Limiter with burst 1: consuming the single token both
// accepts the event and opens the window, and the limiter's own locking
// makes concurrent trips race-tolerant.
type Debounce struct {
	lim *rate.Limiter
}

// NewDebounce returns a gate with the given window; window <= 0 uses
// DefaultCooldown.
func NewDebounce(window time.Duration) *Debounce {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &Debounce{lim: rate.NewLimiter(rate.Every(window), 1)}
}

// Allow reports whether a change event should be accepted. Accepting opens
// the cooldown window; events arriving inside the window report false.
func (d *Debounce) Allow() bool {
	return d.lim.Allow()
}

// Trip closes the gate for one window without accepting anything. Call it
// before performing a clipboard write that will echo back as a change
// signal. Idempotent: tripping an already-closed gate is a no-op.
func (d *Debounce) Trip() {
	d.lim.Allow()
}
