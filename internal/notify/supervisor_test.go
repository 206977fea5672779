package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/clipglance/clipglance/internal/classify"
	"github.com/clipglance/clipglance/internal/clipboard"
	"github.com/clipglance/clipglance/internal/presenter"
	"github.com/clipglance/clipglance/internal/sizes"
	"github.com/clipglance/clipglance/internal/sound"
)

// fakeBackend serves a scripted snapshot and records writes.
type fakeBackend struct {
	snap    *clipboard.Set
	watchCh chan struct{}
	wrote   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{snap: clipboard.NewSet(), watchCh: make(chan struct{}, 1)}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Read() (clipboard.Snapshot, error) { return b.snap, nil }

func (b *fakeBackend) WriteText(text string) error {
	b.wrote = append(b.wrote, text)
	return nil
}

func (b *fakeBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *fakeBackend) Close()                 {}

var _ clipboard.Backend = (*fakeBackend)(nil)

// fakePresenter records every command it receives.
type fakePresenter struct {
	created  int
	exits    []uuid.UUID
	disposed []uuid.UUID
	updates  []string
	sticky   []bool
}

func (p *fakePresenter) Create(_ uuid.UUID, _ classify.Descriptor, _ int) { p.created++ }

func (p *fakePresenter) UpdateBottomText(_ uuid.UUID, text string) {
	p.updates = append(p.updates, text)
}

func (p *fakePresenter) BeginEnter(_ uuid.UUID) {}
func (p *fakePresenter) BeginExit(id uuid.UUID) { p.exits = append(p.exits, id) }
func (p *fakePresenter) SetSticky(_ uuid.UUID, on bool, _ classify.Descriptor) {
	p.sticky = append(p.sticky, on)
}
func (p *fakePresenter) Dispose(id uuid.UUID) { p.disposed = append(p.disposed, id) }

var _ presenter.Presenter = (*fakePresenter)(nil)

// fakePlayer counts cues.
type fakePlayer struct {
	plays  int
	copies int
}

func (p *fakePlayer) Play()       { p.plays++ }
func (p *fakePlayer) PlayCopied() { p.copies++ }

var _ sound.Player = (*fakePlayer)(nil)

type testRig struct {
	sup     *Supervisor
	backend *fakeBackend
	pres    *fakePresenter
	snd     *fakePlayer
	fs      afero.Fs
}

// newRig builds a supervisor whose handlers are driven directly by the test,
// which stands in for the coordinator goroutine. A nanosecond cooldown keeps
// the gate out of the way unless a test configures a real one.
func newRig(t *testing.T, cfg Config) *testRig {
	t.Helper()
	if cfg.Cooldown == 0 {
		cfg.Cooldown = time.Nanosecond
	}
	backend := newFakeBackend()
	pres := &fakePresenter{}
	snd := &fakePlayer{}
	fs := afero.NewMemMapFs()
	pool := sizes.NewPool(2)
	t.Cleanup(pool.Close)

	sup := New(cfg, backend, fs, pool, pres, snd, make(chan presenter.Event))
	return &testRig{sup: sup, backend: backend, pres: pres, snd: snd, fs: fs}
}

// copyText points the fake backend at plain text and fires the change path.
func (r *testRig) copyText(text string) {
	r.backend.snap = clipboard.NewSet().Add(clipboard.FormatText, []byte(text))
	r.sup.onClipboardChange()
}

// settle completes the entry transition of every entering notification.
func (r *testRig) settle() {
	for _, n := range r.sup.live {
		if n.Phase == PhaseEntering {
			r.sup.onPresenterEvent(presenter.Event{Kind: presenter.EnterCompleted, ID: n.ID})
		}
	}
}

func TestChangeCreatesNotificationWithSound(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("hello")

	if r.pres.created != 1 {
		t.Fatalf("created = %d, want 1", r.pres.created)
	}
	if r.snd.plays != 1 {
		t.Fatalf("plays = %d, want 1", r.snd.plays)
	}
	if len(r.sup.live) != 1 || r.sup.live[0].Phase != PhaseEntering {
		t.Fatalf("live = %+v, want one entering notification", r.sup.live)
	}
}

func TestClearedChangeIsSilent(t *testing.T) {
	r := newRig(t, Config{})
	r.backend.snap = clipboard.NewSet()
	r.sup.onClipboardChange()

	if r.pres.created != 1 {
		t.Fatalf("created = %d, want the cleared popup", r.pres.created)
	}
	if r.snd.plays != 0 {
		t.Fatalf("plays = %d, want 0 for cleared content", r.snd.plays)
	}
}

func TestCooldownYieldsOneNotificationPerWindow(t *testing.T) {
	r := newRig(t, Config{Cooldown: 100 * time.Millisecond})
	r.copyText("one")
	r.copyText("two")

	if r.pres.created != 1 {
		t.Fatalf("created = %d, want 1 within one cooldown window", r.pres.created)
	}
	if r.snd.plays != 1 {
		t.Fatalf("plays = %d, want 1 within one cooldown window", r.snd.plays)
	}
	if r.sup.suppressed != 1 {
		t.Fatalf("suppressed = %d, want 1", r.sup.suppressed)
	}
}

func TestNewChangeSupersedesStationary(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("first")
	r.settle()
	first := r.sup.live[0].ID

	r.copyText("second")

	if len(r.pres.exits) != 1 || r.pres.exits[0] != first {
		t.Fatalf("exits = %v, want exactly the first notification", r.pres.exits)
	}
	if got := r.sup.find(first).Phase; got != PhaseSlidingOut {
		t.Fatalf("first phase = %v, want %v", got, PhaseSlidingOut)
	}

	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.ExitCompleted, ID: first})
	if r.sup.find(first) != nil {
		t.Fatal("first should leave the live set on exit completion")
	}
	if len(r.sup.live) != 1 {
		t.Fatalf("live = %d, want 1", len(r.sup.live))
	}
}

func TestCapacityEvictsOldestExactlyOnce(t *testing.T) {
	r := newRig(t, Config{MaxLive: 2})
	// No enter completions: nothing is stationary, so only the cap rule
	// can pick a victim.
	r.copyText("a")
	r.copyText("b")
	oldest := r.sup.live[0].ID

	r.copyText("c")

	if len(r.pres.exits) != 1 || r.pres.exits[0] != oldest {
		t.Fatalf("exits = %v, want exactly the oldest", r.pres.exits)
	}
	exiting := 0
	for _, n := range r.sup.live {
		if n.Phase == PhaseSlidingOut {
			exiting++
		}
	}
	if exiting != 1 {
		t.Fatalf("mid-exit notifications = %d, want exactly 1", exiting)
	}
	if len(r.sup.live) != 3 {
		t.Fatalf("live = %d, want 3 until the exit completes", len(r.sup.live))
	}
}

func TestPinnedSuppressesCreationButNotSound(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("keep me")
	r.settle()
	id := r.sup.live[0].ID
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: id})

	r.copyText("new content")

	if r.pres.created != 1 {
		t.Fatalf("created = %d, want creation suppressed while pinned", r.pres.created)
	}
	if r.snd.plays != 2 {
		t.Fatalf("plays = %d, want the sound for the suppressed change too", r.snd.plays)
	}
	if len(r.sup.live) != 1 {
		t.Fatalf("live = %d, want 1", len(r.sup.live))
	}
}

func TestPinnedExemptFromCountdownAndEviction(t *testing.T) {
	r := newRig(t, Config{MaxLive: 1})
	r.copyText("pin me")
	r.settle()
	id := r.sup.live[0].ID
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: id})

	// A countdown fire that raced the pin is discarded.
	r.sup.onCountdown(id)
	if got := r.sup.find(id).Phase; got != PhaseStationary {
		t.Fatalf("phase after countdown while pinned = %v, want stationary", got)
	}
	if len(r.pres.exits) != 0 {
		t.Fatalf("exits = %v, want none while pinned", r.pres.exits)
	}
}

func TestUnpinRestoresDescriptorAndResumes(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("original")
	r.settle()
	n := r.sup.live[0]
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: n.ID})

	// Edits while pinned touch only the presentation; the supervisor's
	// snapshot restores the original on unpin.
	if n.remaining <= 0 {
		t.Fatalf("remaining = %v, want the paused countdown recorded", n.remaining)
	}
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: n.ID})

	if n.Sticky {
		t.Fatal("notification should be unpinned")
	}
	if n.Desc.TopText != "original" {
		t.Fatalf("TopText = %q, want the pin-time snapshot restored", n.Desc.TopText)
	}
	if n.Phase != PhaseStationary {
		t.Fatalf("phase = %v, want stationary with countdown resumed", n.Phase)
	}
	if got := []bool{true, false}; len(r.pres.sticky) != 2 || r.pres.sticky[0] != got[0] || r.pres.sticky[1] != got[1] {
		t.Fatalf("sticky commands = %v, want [true false]", r.pres.sticky)
	}
}

func TestUnpinWithExhaustedCountdownExitsImmediately(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("expired")
	r.settle()
	n := r.sup.live[0]
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: n.ID})

	n.remaining = 0
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: n.ID})

	if n.Phase != PhaseSlidingOut {
		t.Fatalf("phase = %v, want immediate exit when nothing remains", n.Phase)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("bye")
	id := r.sup.live[0].ID

	r.sup.dispose(id)
	r.sup.dispose(id)

	if len(r.pres.disposed) != 1 {
		t.Fatalf("dispose commands = %d, want 1", len(r.pres.disposed))
	}
	if len(r.sup.live) != 0 {
		t.Fatalf("live = %d, want 0", len(r.sup.live))
	}
}

func TestDoubleExitIsIdempotent(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("once")
	n := r.sup.live[0]

	r.sup.beginExit(n, "dismissed")
	r.sup.beginExit(n, "dismissed")

	if len(r.pres.exits) != 1 {
		t.Fatalf("exit commands = %d, want 1", len(r.pres.exits))
	}
}

func TestStaleSizeResultDropped(t *testing.T) {
	r := newRig(t, Config{})
	r.copyText("gone")
	id := r.sup.live[0].ID
	r.sup.dispose(id)

	before := len(r.pres.updates)
	r.sup.onSizeResult(sizes.Result{ID: id, Text: "9 K"})

	if len(r.pres.updates) != before {
		t.Fatalf("updates = %v, want stale result dropped", r.pres.updates)
	}
}

func TestFileChangeShowsBusyMarkerThenSize(t *testing.T) {
	r := newRig(t, Config{})
	if err := afero.WriteFile(r.fs, "/report.pdf", bytes.Repeat([]byte{'x'}, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	r.backend.snap = clipboard.NewSet().AddURIs("file:///report.pdf")
	r.sup.onClipboardChange()

	if len(r.pres.updates) != 1 || !strings.Contains(r.pres.updates[0], busyMarker) {
		t.Fatalf("updates = %v, want the provisional busy marker", r.pres.updates)
	}

	select {
	case res := <-r.sup.results:
		r.sup.onSizeResult(res)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the aggregate")
	}

	last := r.pres.updates[len(r.pres.updates)-1]
	if last != "文件: 2 K" {
		t.Fatalf("final bottom text = %q, want %q", last, "文件: 2 K")
	}
}

func TestThemeAlternates(t *testing.T) {
	r := newRig(t, Config{MaxLive: 5})
	r.copyText("a")
	r.copyText("b")

	if r.sup.live[0].Theme != 0 || r.sup.live[1].Theme != 1 {
		t.Fatalf("themes = %d,%d, want 0,1", r.sup.live[0].Theme, r.sup.live[1].Theme)
	}
}

func TestInPlaceCopyTripsGateAndWrites(t *testing.T) {
	r := newRig(t, Config{Cooldown: 100 * time.Millisecond})
	r.copyText("source")
	r.settle()
	id := r.sup.live[0].ID

	// Only a pinned notification accepts the in-place copy action.
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.CopyPerformed, ID: id, Text: "nope"})
	if len(r.backend.wrote) != 0 {
		t.Fatal("copy from an unpinned notification should be ignored")
	}

	time.Sleep(110 * time.Millisecond) // let the creation cooldown lapse
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: id})
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.CopyPerformed, ID: id, Text: "selection"})

	if len(r.backend.wrote) != 1 || r.backend.wrote[0] != "selection" {
		t.Fatalf("wrote = %v, want the selection", r.backend.wrote)
	}
	if r.snd.copies != 1 {
		t.Fatalf("copied cues = %d, want 1", r.snd.copies)
	}

	// The echo of the write arrives inside the tripped window and must not
	// produce a notification.
	r.sup.onClipboardChange()
	if r.pres.created != 1 {
		t.Fatalf("created = %d, want the echo suppressed", r.pres.created)
	}
}

func TestSnapshotReflectsLiveSet(t *testing.T) {
	r := newRig(t, Config{MaxLive: 5})
	r.copyText("a")
	r.settle()
	r.sup.onPresenterEvent(presenter.Event{Kind: presenter.PinToggleClicked, ID: r.sup.live[0].ID})
	r.copyText("b") // suppressed by the pin

	snap := r.sup.snapshot()
	if snap.Accepted != 2 {
		t.Fatalf("accepted = %d, want 2", snap.Accepted)
	}
	if len(snap.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(snap.Notifications))
	}
	ns := snap.Notifications[0]
	if !ns.Sticky || ns.Phase != "stationary" || ns.Kind != "text" {
		t.Fatalf("notification status = %+v", ns)
	}
}
