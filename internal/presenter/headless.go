package presenter

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipglance/clipglance/internal/classify"
)

// Headless is a renderer-less Presenter for servers and tests: commands are
// logged and transitions acknowledge themselves after the configured
// animation duration. It is what runs when no display integration is wired.
type Headless struct {
	anim   time.Duration
	events chan<- Event
}

// NewHeadless returns a headless presenter posting completion events to
// events after anim per transition.
func NewHeadless(anim time.Duration, events chan<- Event) *Headless {
	if anim <= 0 {
		anim = 88 * time.Millisecond
	}
	return &Headless{anim: anim, events: events}
}

func (h *Headless) Create(id uuid.UUID, d classify.Descriptor, theme int) {
	slog.Info("notification",
		"id", id,
		"kind", d.Kind.String(),
		"theme", theme,
		"top", firstLine(d.TopText),
		"bottom", d.BottomText,
	)
}

func (h *Headless) UpdateBottomText(id uuid.UUID, text string) {
	slog.Info("notification updated", "id", id, "bottom", text)
}

func (h *Headless) BeginEnter(id uuid.UUID) {
	h.ack(id, EnterCompleted)
}

func (h *Headless) BeginExit(id uuid.UUID) {
	h.ack(id, ExitCompleted)
}

func (h *Headless) SetSticky(id uuid.UUID, on bool, d classify.Descriptor) {
	slog.Info("notification sticky", "id", id, "on", on, "top", firstLine(d.TopText))
}

func (h *Headless) Dispose(id uuid.UUID) {
	slog.Debug("notification disposed", "id", id)
}

// ack reports a transition as completed once the animation would have run.
func (h *Headless) ack(id uuid.UUID, kind EventKind) {
	time.AfterFunc(h.anim, func() {
		select {
		case h.events <- Event{Kind: kind, ID: id}:
		default:
			slog.Warn("presenter event dropped, queue full", "kind", kind.String(), "id", id)
		}
	})
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	if len(s) > 120 {
		s = s[:120] + "…"
	}
	return s
}

var _ Presenter = (*Headless)(nil)
