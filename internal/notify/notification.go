package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/clipglance/clipglance/internal/classify"
)

// Phase is a notification's position in its lifecycle:
//
//	Entering → Stationary → SlidingOut → Disposed
//
// with Stationary ⇄ sticky (a flag, not a phase — a sticky notification is
// still stationary, just exempt from expiry and eviction).
type Phase int

const (
	PhaseEntering Phase = iota
	PhaseStationary
	PhaseSlidingOut
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseStationary:
		return "stationary"
	case PhaseSlidingOut:
		return "sliding-out"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Notification is one live popup. Owned exclusively by the Supervisor,
// mutated only via lifecycle transitions on the coordinator goroutine, and
// never touched again once disposed.
type Notification struct {
	ID        uuid.UUID
	Desc      classify.Descriptor
	Theme     int
	CreatedAt time.Time
	Phase     Phase
	Sticky    bool

	// deadline is when the countdown expires while stationary; remaining is
	// the paused countdown while sticky.
	deadline  time.Time
	remaining time.Duration
	countdown *time.Timer

	// pinDesc is the descriptor snapshot taken at pin time, restored
	// verbatim on unpin so edits made while pinned are discarded.
	pinDesc *classify.Descriptor
}

// exiting reports whether the notification is past the point of no return.
func (n *Notification) exiting() bool {
	return n.Phase == PhaseSlidingOut || n.Phase == PhaseDisposed
}

// stopCountdown stops the countdown timer if armed. Stopping an
// already-fired timer is a no-op; a fire already queued is discarded by the
// supervisor's phase/sticky guards instead.
func (n *Notification) stopCountdown() {
	if n.countdown != nil {
		n.countdown.Stop()
	}
}
