// Package clipboard provides read/watch access to the system clipboard.
//
// The real backend is built on golang.design/x/clipboard and polls for
// changes, falling back to a headless no-op backend when no display
// environment is available (containers, ssh sessions without forwarding).
package clipboard

// Snapshot is a point-in-time view of the clipboard content set. Multiple
// representation types may coexist; callers pull a fresh snapshot on every
// change signal and never hold one across signals.
type Snapshot interface {
	// Formats lists the available representation type identifiers in the
	// order the clipboard reported them. An empty list means the clipboard
	// has been cleared.
	Formats() []string

	// URIs returns the entries of the text/uri-list representation, if any.
	URIs() []string

	// Image returns the raw image payload, or nil if no image is present.
	Image() []byte

	// Text returns the plain-text representation, or "" if none is present.
	Text() string

	// Data returns the raw bytes of an arbitrary representation type, or
	// nil if the type is not present.
	Data(format string) []byte
}

// Backend is the interface all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Read returns the current clipboard content set. An empty (but
	// non-nil) snapshot means the clipboard holds no representations.
	Read() (Snapshot, error)

	// WriteText replaces the clipboard contents with plain text. Callers
	// that expect the write to echo back as a change signal must arm the
	// debounce gate first.
	WriteText(text string) error

	// Watch returns a channel that receives a signal whenever the
	// clipboard changes. The channel is never closed; the caller should
	// Read() when it receives from the channel.
	Watch() <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}
