// Package sound is the feedback-sound port. The core decides when a cue
// should play and which file to use; actual playback belongs to the
// environment.
package sound

import (
	"log/slog"
	"math/rand/v2"
)

// Player plays feedback cues. Implementations must not block.
type Player interface {
	// Play plays the new-content cue.
	Play()
	// PlayCopied plays the distinct cue for an in-place copy from a pinned
	// notification.
	PlayCopied()
}

// Selector picks a sound file per cue, never repeating the previous pick
// when more than one candidate exists.
type Selector struct {
	files []string
	last  string
}

// NewSelector returns a selector over files; an empty list yields no picks.
func NewSelector(files []string) *Selector {
	return &Selector{files: files}
}

// Next returns the next file to play, or "" when none are configured.
func (s *Selector) Next() string {
	if len(s.files) == 0 {
		return ""
	}
	candidates := s.files
	if s.last != "" && len(s.files) > 1 {
		candidates = make([]string, 0, len(s.files)-1)
		for _, f := range s.files {
			if f != s.last {
				candidates = append(candidates, f)
			}
		}
		if len(candidates) == 0 {
			candidates = s.files
		}
	}
	pick := candidates[rand.IntN(len(candidates))]
	s.last = pick
	return pick
}

// LogPlayer is the default Player: it selects a file and logs the cue, for
// environments with no audio integration wired.
type LogPlayer struct {
	sel *Selector
}

// NewLogPlayer returns a LogPlayer selecting from files.
func NewLogPlayer(files []string) *LogPlayer {
	if len(files) == 0 {
		slog.Warn("no sound files configured, cues will be silent")
	} else {
		slog.Info("sound files loaded", "count", len(files))
	}
	return &LogPlayer{sel: NewSelector(files)}
}

func (p *LogPlayer) Play() {
	if f := p.sel.Next(); f != "" {
		slog.Debug("sound cue", "file", f)
	}
}

func (p *LogPlayer) PlayCopied() {
	slog.Debug("sound cue", "kind", "copied")
}

var _ Player = (*LogPlayer)(nil)
