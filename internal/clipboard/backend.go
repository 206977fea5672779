package clipboard

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	xclip "golang.design/x/clipboard"
)

// pollBackend watches the system clipboard by polling, which is the only
// change-detection mechanism golang.design/x/clipboard offers uniformly
// across X11, Wayland, macOS and Windows.
type pollBackend struct {
	interval time.Duration
	watchCh  chan struct{}
	done     chan struct{}
	lastText []byte
	lastImg  []byte
}

// New returns the system clipboard backend, or a headless no-op backend if
// the display environment is unavailable. xclip.Init is called here rather
// than in init() so that CLI sub-commands (status, version) don't trigger
// the warning.
func New(pollInterval time.Duration) Backend {
	if err := xclip.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return &headlessBackend{watchCh: make(chan struct{})}
	}
	if pollInterval <= 0 {
		pollInterval = 250 * time.Millisecond
	}
	b := &pollBackend{
		interval: pollInterval,
		watchCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go b.poll()
	return b
}

func (b *pollBackend) Name() string { return "system clipboard (poll)" }

func (b *pollBackend) poll() {
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text := xclip.Read(xclip.FmtText)
			img := xclip.Read(xclip.FmtImage)
			if !bytes.Equal(text, b.lastText) || !bytes.Equal(img, b.lastImg) {
				b.lastText = text
				b.lastImg = img
				select {
				case b.watchCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *pollBackend) Read() (Snapshot, error) {
	set := NewSet()
	if text := xclip.Read(xclip.FmtText); len(text) > 0 {
		if uris := parseURIList(string(text)); uris != nil {
			set.AddURIs(uris...)
		} else {
			set.Add(FormatText, text)
		}
	}
	if img := xclip.Read(xclip.FmtImage); len(img) > 0 {
		set.Add(FormatPNG, img)
	}
	return set, nil
}

func (b *pollBackend) WriteText(text string) error {
	xclip.Write(xclip.FmtText, []byte(text))
	return nil
}

func (b *pollBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *pollBackend) Close()                 { close(b.done) }

// parseURIList returns the entries of text that is really a URI list — every
// non-blank line carries a URL scheme, the form file managers put on the
// clipboard when files are copied. Returns nil for ordinary text.
func parseURIList(text string) []string {
	var uris []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if !strings.Contains(line, "://") {
			return nil
		}
		uris = append(uris, line)
	}
	return uris
}
