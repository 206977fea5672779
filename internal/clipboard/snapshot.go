package clipboard

import "strings"

// Well-known representation type identifiers.
const (
	FormatText    = "text/plain"
	FormatURIList = "text/uri-list"
	FormatPNG     = "image/png"
)

// Set is a concrete Snapshot backed by an ordered format list. Backends and
// tests build one with Add/AddURIs; it is immutable once handed out.
type Set struct {
	formats []string
	data    map[string][]byte
	uris    []string
}

// NewSet returns an empty content set (a cleared clipboard).
func NewSet() *Set {
	return &Set{data: make(map[string][]byte)}
}

// Add records a representation and returns the set for chaining. Adding the
// same format twice keeps the first payload.
func (s *Set) Add(format string, data []byte) *Set {
	if _, ok := s.data[format]; ok {
		return s
	}
	s.formats = append(s.formats, format)
	s.data[format] = data
	return s
}

// AddURIs records a text/uri-list representation from individual entries.
func (s *Set) AddURIs(uris ...string) *Set {
	s.uris = append(s.uris, uris...)
	return s.Add(FormatURIList, []byte(strings.Join(uris, "\n")))
}

func (s *Set) Formats() []string { return s.formats }
func (s *Set) URIs() []string    { return s.uris }

func (s *Set) Image() []byte { return s.data[FormatPNG] }

func (s *Set) Text() string {
	for _, f := range s.formats {
		if f == FormatText || strings.HasPrefix(f, FormatText+";") {
			return string(s.data[f])
		}
	}
	return ""
}

func (s *Set) Data(format string) []byte { return s.data[format] }

var _ Snapshot = (*Set)(nil)
