// Package classify turns a clipboard content set into a single display
// descriptor. Classification is deterministic apart from filesystem
// existence checks and never fails: content that fits no rule simply yields
// no descriptor.
package classify

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/clipglance/clipglance/internal/clipboard"
	"github.com/clipglance/clipglance/internal/sizes"
)

// Kind is the classified content category.
type Kind int

const (
	KindFiles Kind = iota
	KindImage
	KindText
	KindOther
	KindCleared
)

func (k Kind) String() string {
	switch k {
	case KindFiles:
		return "files"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindOther:
		return "other"
	case KindCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Descriptor is the classified summary of the clipboard content set.
// Produced once by Classify, consumed once by the supervisor, and never
// mutated afterwards. Exactly one of BottomText and BottomTemplate is set;
// BottomTemplate carries a sizes.Placeholder and accompanies Paths.
type Descriptor struct {
	Kind           Kind
	TopText        string
	BottomText     string
	BottomTemplate string
	Paths          []string
}

// maxListedNames caps how many base names the multi-file top text lists.
const maxListedNames = 7

// maxURLChars caps the displayed length of a remote URL.
const maxURLChars = 50

// Classifier resolves file references against fs while classifying.
type Classifier struct {
	fs afero.Fs
}

// New returns a classifier checking paths against fs.
func New(fs afero.Fs) *Classifier {
	return &Classifier{fs: fs}
}

// Classify chooses one descriptor for the content set by strict priority:
// file references, image, text, other, cleared. Returns nil when the set
// yields nothing worth showing.
func (c *Classifier) Classify(snap clipboard.Snapshot) *Descriptor {
	formats := snap.Formats()

	// A URI-list representation wins even when it resolves to nothing; an
	// empty URL list yields no descriptor rather than falling through.
	if slices.Contains(formats, clipboard.FormatURIList) {
		return c.classifyURIs(snap.URIs())
	}

	if img := snap.Image(); len(img) > 0 {
		return classifyImage(img)
	}

	if text := snap.Text(); text != "" {
		return &Descriptor{
			Kind:       KindText,
			TopText:    text,
			BottomText: sizes.Format(int64(encodedSize(text))),
		}
	}

	if len(formats) > 0 {
		return classifyOther(snap, formats)
	}

	return &Descriptor{
		Kind:       KindCleared,
		TopText:    "剪贴板已清空",
		BottomText: " ",
	}
}

// classifyURIs handles file/folder references. References that resolve to no
// existing local path degrade to a remote-URL descriptor, or to nothing.
func (c *Classifier) classifyURIs(uris []string) *Descriptor {
	var local, remote []string
	for _, raw := range uris {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if u.Scheme == "file" {
			p := u.Path
			if _, err := c.fs.Stat(p); err == nil {
				local = append(local, p)
			}
			continue
		}
		remote = append(remote, raw)
	}

	if len(local) == 0 {
		if len(remote) == 0 {
			return nil
		}
		first := []rune(remote[0])
		bottom := string(first)
		if len(first) > maxURLChars {
			bottom = string(first[:maxURLChars-3]) + "..."
		}
		return &Descriptor{
			Kind:       KindOther,
			TopText:    fmt.Sprintf("复制了 %d 个 URL", len(remote)),
			BottomText: bottom,
		}
	}

	var files, dirs int
	for _, p := range local {
		if info, err := c.fs.Stat(p); err == nil && info.IsDir() {
			dirs++
		} else {
			files++
		}
	}

	count := len(local)
	if count == 1 {
		tmpl := "文件: " + sizes.Placeholder
		if dirs == 1 {
			tmpl = "文件夹: " + sizes.Placeholder
		}
		return &Descriptor{
			Kind:           KindFiles,
			TopText:        filepath.Base(local[0]),
			BottomTemplate: tmpl,
			Paths:          local,
		}
	}

	lines := make([]string, 0, maxListedNames+1)
	for _, p := range local[:min(count, maxListedNames)] {
		lines = append(lines, filepath.Base(p))
	}
	if count > maxListedNames {
		lines = append(lines, fmt.Sprintf("... (等 %d 个)", count-maxListedNames))
	}

	var tmpl string
	switch {
	case files > 0 && dirs > 0:
		tmpl = fmt.Sprintf("%d 个项目: %s", count, sizes.Placeholder)
	case dirs > 0:
		tmpl = fmt.Sprintf("%d 个文件夹: %s", count, sizes.Placeholder)
	default:
		tmpl = fmt.Sprintf("%d 个文件: %s", count, sizes.Placeholder)
	}

	return &Descriptor{
		Kind:           KindFiles,
		TopText:        strings.Join(lines, "\n"),
		BottomTemplate: tmpl,
		Paths:          local,
	}
}

// classifyImage re-encodes the payload to PNG solely to measure its size.
func classifyImage(payload []byte) *Descriptor {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	b := img.Bounds()
	return &Descriptor{
		Kind:       KindImage,
		TopText:    fmt.Sprintf("%d×%d", b.Dx(), b.Dy()),
		BottomText: "截图: " + sizes.Format(int64(buf.Len())),
	}
}

// classifyOther picks the first representation type that isn't clipboard
// noise and reports it as unknown content with its raw byte length.
func classifyOther(snap clipboard.Snapshot, formats []string) *Descriptor {
	primary := ""
	for _, f := range formats {
		if !noiseFormat(f) {
			primary = f
			break
		}
	}
	if primary == "" {
		primary = formats[0]
	}
	data := snap.Data(primary)
	return &Descriptor{
		Kind:       KindOther,
		TopText:    "未知内容\n类型: " + primary,
		BottomText: sizes.Format(int64(len(data))),
	}
}

// noiseFormats are representation types that never identify the content on
// their own: toolkit-internal markers, plain-text and URI-list variants, and
// common raster aliases.
var noiseFormats = map[string]struct{}{
	"text/plain":               {},
	"text/plain;charset=utf-8": {},
	"text/uri-list":            {},
	"UTF8_STRING":              {},
	"COMPOUND_TEXT":            {},
	"TEXT":                     {},
	"STRING":                   {},
	"image/png":                {},
}

func noiseFormat(f string) bool {
	if strings.HasPrefix(f, "application/x-qt-") {
		return true
	}
	_, ok := noiseFormats[f]
	return ok
}

// encodedSize counts text bytes under GBK, falling back to the UTF-8 byte
// count when the text has runes GBK cannot represent.
func encodedSize(text string) int {
	b, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return len(text)
	}
	return len(b)
}
