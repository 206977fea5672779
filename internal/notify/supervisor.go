// Package notify implements the notification core: the debounce gate, the
// per-notification lifecycle state machine, and the supervisor that owns the
// live-notification set.
//
// All coordination state — the live set, phases, timers, the theme toggle —
// is owned by a single goroutine (Run). Everything that happens elsewhere
// (size workers, presenter transitions, countdown timers, status queries)
// crosses back in through a channel and is processed on the coordinator's
// own turn. No supervisor callback blocks.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/clipglance/clipglance/internal/classify"
	"github.com/clipglance/clipglance/internal/clipboard"
	"github.com/clipglance/clipglance/internal/presenter"
	"github.com/clipglance/clipglance/internal/sizes"
	"github.com/clipglance/clipglance/internal/sound"
)

// busyMarker is shown in place of the size until aggregation delivers.
const busyMarker = "●"

// Config controls the supervisor.
type Config struct {
	// Lifetime is the countdown from Stationary to dismissal.
	Lifetime time.Duration
	// Cooldown is the debounce window against echoed change signals.
	Cooldown time.Duration
	// MaxLive caps the live-notification set; reaching it evicts the
	// oldest non-pinned notification before a new one is created.
	MaxLive int
}

func (c Config) withDefaults() Config {
	if c.Lifetime <= 0 {
		c.Lifetime = 19 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.MaxLive <= 0 {
		c.MaxLive = 3
	}
	return c
}

// Supervisor coordinates clipboard changes into notification lifecycles.
type Supervisor struct {
	cfg     Config
	backend clipboard.Backend
	cls     *classify.Classifier
	agg     *sizes.Aggregator
	pres    presenter.Presenter
	sound   sound.Player
	gate    *Debounce

	uiEvents <-chan presenter.Event
	results  chan sizes.Result
	ticks    chan uuid.UUID
	queries  chan chan Snapshot

	live       []*Notification
	theme      int
	started    time.Time
	accepted   uint64
	suppressed uint64
}

// New wires a supervisor. events is the queue on which the presentation
// layer delivers its events; the caller hands the same channel to the
// presenter. fs backs path resolution and size aggregation; pool is the
// shared worker pool.
func New(cfg Config, backend clipboard.Backend, fs afero.Fs, pool *sizes.Pool,
	pres presenter.Presenter, snd sound.Player, events <-chan presenter.Event) *Supervisor {

	cfg = cfg.withDefaults()
	results := make(chan sizes.Result, 16)
	return &Supervisor{
		cfg:      cfg,
		backend:  backend,
		cls:      classify.New(fs),
		agg:      sizes.NewAggregator(fs, pool, results),
		pres:     pres,
		sound:    snd,
		gate:     NewDebounce(cfg.Cooldown),
		uiEvents: events,
		results:  results,
		ticks:    make(chan uuid.UUID, 16),
		queries:  make(chan chan Snapshot, 4),
	}
}

// Run drives all coordination serially until ctx is cancelled.
// Call in exactly one goroutine.
func (s *Supervisor) Run(ctx context.Context) {
	s.started = time.Now()
	slog.Info("supervisor started",
		"backend", s.backend.Name(),
		"lifetime", s.cfg.Lifetime,
		"cooldown", s.cfg.Cooldown,
		"max_live", s.cfg.MaxLive,
	)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case <-s.backend.Watch():
			s.onClipboardChange()
		case ev := <-s.uiEvents:
			s.onPresenterEvent(ev)
		case res := <-s.results:
			s.onSizeResult(res)
		case id := <-s.ticks:
			s.onCountdown(id)
		case reply := <-s.queries:
			reply <- s.snapshot()
		}
	}
}

// onClipboardChange is the accepted-signal path: gate, classify, evict,
// create, and kick off size aggregation for file content.
func (s *Supervisor) onClipboardChange() {
	if !s.gate.Allow() {
		s.suppressed++
		slog.Debug("change signal ignored, cooldown open")
		return
	}

	snap, err := s.backend.Read()
	if err != nil {
		slog.Error("clipboard read failed", "err", err)
		return
	}
	d := s.cls.Classify(snap)
	if d == nil {
		slog.Debug("clipboard content yielded no descriptor")
		return
	}
	s.accepted++

	// The sound plays for every accepted non-cleared change, including
	// changes whose notification is suppressed by an active pin.
	if d.Kind != classify.KindCleared {
		s.sound.Play()
	}

	if s.anySticky() {
		slog.Debug("notification suppressed, pinned popup active", "kind", d.Kind.String())
		return
	}

	s.evictForNew()
	n := s.create(d)

	if len(d.Paths) > 0 {
		s.pres.UpdateBottomText(n.ID, strings.Replace(d.BottomTemplate, sizes.Placeholder, busyMarker, 1))
		s.agg.Start(n.ID, d.Paths, d.BottomTemplate)
	}
}

// evictForNew begins exit on at most one victim: the current stationary
// notification if there is one, otherwise the oldest non-pinned one once
// the live set is at capacity. Pinned and already-exiting notifications are
// never victims.
func (s *Supervisor) evictForNew() {
	var victim *Notification
	for _, n := range s.live {
		if n.Phase == PhaseStationary && !n.Sticky {
			victim = n
			break
		}
	}
	if victim == nil && len(s.live) >= s.cfg.MaxLive {
		for _, n := range s.live {
			if !n.Sticky && !n.exiting() {
				victim = n
				break
			}
		}
	}
	if victim != nil {
		s.beginExit(victim, "superseded")
	}
}

func (s *Supervisor) create(d *classify.Descriptor) *Notification {
	n := &Notification{
		ID:        uuid.New(),
		Desc:      *d,
		Theme:     s.theme,
		CreatedAt: time.Now(),
		Phase:     PhaseEntering,
	}
	s.theme = 1 - s.theme
	s.live = append(s.live, n)

	s.pres.Create(n.ID, n.Desc, n.Theme)
	s.pres.BeginEnter(n.ID)
	slog.Debug("notification created", "id", n.ID, "kind", d.Kind.String(), "theme", n.Theme)
	return n
}

func (s *Supervisor) onPresenterEvent(ev presenter.Event) {
	switch ev.Kind {
	case presenter.EnterCompleted:
		n := s.find(ev.ID)
		if n == nil || n.Phase != PhaseEntering {
			return
		}
		n.Phase = PhaseStationary
		s.startCountdown(n, s.cfg.Lifetime)

	case presenter.ExitCompleted:
		s.dispose(ev.ID)

	case presenter.DismissClicked:
		if n := s.find(ev.ID); n != nil {
			s.beginExit(n, "dismissed")
		}

	case presenter.PinToggleClicked:
		s.togglePin(ev.ID)

	case presenter.CopyPerformed:
		s.onCopyPerformed(ev)
	}
}

// onCopyPerformed handles the in-place copy from a pinned notification: a
// distinct path with its own cue, gated by the same debounce, bypassing
// classification and notification creation entirely.
func (s *Supervisor) onCopyPerformed(ev presenter.Event) {
	n := s.find(ev.ID)
	if n == nil || !n.Sticky {
		return
	}
	s.gate.Trip()
	if ev.Text != "" {
		if err := s.backend.WriteText(ev.Text); err != nil {
			slog.Error("in-place copy write failed", "err", err)
		}
	}
	s.sound.PlayCopied()
	slog.Debug("in-place copy performed", "id", n.ID)
}

func (s *Supervisor) onCountdown(id uuid.UUID) {
	n := s.find(id)
	// A pin or an explicit dismiss may have raced an already-queued fire.
	if n == nil || n.Sticky || n.Phase != PhaseStationary {
		return
	}
	s.beginExit(n, "expired")
}

func (s *Supervisor) togglePin(id uuid.UUID) {
	n := s.find(id)
	if n == nil || n.exiting() {
		return
	}

	if !n.Sticky {
		if n.Phase != PhaseStationary {
			return
		}
		n.Sticky = true
		n.stopCountdown()
		n.remaining = time.Until(n.deadline)
		if n.remaining < 0 {
			n.remaining = 0
		}
		pinned := n.Desc
		n.pinDesc = &pinned
		s.pres.SetSticky(n.ID, true, n.Desc)
		slog.Debug("notification pinned", "id", n.ID, "remaining", n.remaining)
		return
	}

	n.Sticky = false
	if n.pinDesc != nil {
		n.Desc = *n.pinDesc
		n.pinDesc = nil
	}
	s.pres.SetSticky(n.ID, false, n.Desc)
	if n.remaining <= 0 {
		s.beginExit(n, "expired while pinned")
		return
	}
	s.startCountdown(n, n.remaining)
	n.remaining = 0
	slog.Debug("notification unpinned", "id", n.ID)
}

func (s *Supervisor) startCountdown(n *Notification, d time.Duration) {
	n.deadline = time.Now().Add(d)
	id := n.ID
	n.countdown = time.AfterFunc(d, func() {
		select {
		case s.ticks <- id:
		default:
			slog.Warn("countdown tick dropped, queue full", "id", id)
		}
	})
}

func (s *Supervisor) beginExit(n *Notification, reason string) {
	if n.exiting() {
		return
	}
	n.stopCountdown()
	n.Phase = PhaseSlidingOut
	s.pres.BeginExit(n.ID)
	slog.Debug("notification exiting", "id", n.ID, "reason", reason)
}

// dispose removes a notification from the live set on exit-transition
// completion. Idempotent: unknown and already-disposed ids are no-ops.
func (s *Supervisor) dispose(id uuid.UUID) {
	n := s.find(id)
	if n == nil || n.Phase == PhaseDisposed {
		return
	}
	n.stopCountdown()
	n.Phase = PhaseDisposed
	for i, m := range s.live {
		if m.ID == id {
			s.live = append(s.live[:i], s.live[i+1:]...)
			break
		}
	}
	s.pres.Dispose(id)
	slog.Debug("notification disposed", "id", id, "live", len(s.live))
}

// onSizeResult applies the one-shot aggregate delivery, discarding results
// whose notification has meanwhile left the live set.
func (s *Supervisor) onSizeResult(res sizes.Result) {
	n := s.find(res.ID)
	if n == nil {
		slog.Debug("stale size result dropped", "id", res.ID)
		return
	}
	s.pres.UpdateBottomText(res.ID, res.Text)
}

func (s *Supervisor) find(id uuid.UUID) *Notification {
	for _, n := range s.live {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Supervisor) anySticky() bool {
	for _, n := range s.live {
		if n.Sticky {
			return true
		}
	}
	return false
}

func (s *Supervisor) shutdown() {
	for _, n := range s.live {
		n.stopCountdown()
	}
	slog.Info("supervisor stopped", "accepted", s.accepted, "suppressed", s.suppressed)
}
