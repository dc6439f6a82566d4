// Package buffer holds the text content of one editor tab together with its
// edited flag, cursor, selection and zoom level.
package buffer

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"edshell/internal/errors"
	"edshell/internal/log"

	"github.com/gabriel-vasile/mimetype"
)

// Zoom limits, in percent
const (
	MinZoom     = 10
	MaxZoom     = 500
	ZoomStep    = 10
	DefaultZoom = 100
)

// Storage is the part of the filesystem gateway a buffer needs
type Storage interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// Options tune how content is loaded
type Options struct {
	MaxFileSize  int64 // 0 means unlimited
	RejectBinary bool
	Zoom         int
}

// Buffer is the text of one document. It is not safe for concurrent use.
type Buffer struct {
	store     Storage
	opts      Options
	text      string
	mediaType string
	edited    bool

	// Byte offsets into text. selStart == selEnd means no selection and
	// the cursor sits at selEnd.
	selStart int
	selEnd   int

	zoom int
}

// New creates an empty buffer
func New(store Storage, opts Options) *Buffer {
	b := &Buffer{
		store:     store,
		opts:      opts,
		mediaType: "text/plain",
		zoom:      DefaultZoom,
	}
	if opts.Zoom != 0 {
		b.SetZoom(opts.Zoom)
	}
	return b
}

// Load replaces the content with the file at path. On failure the buffer is
// left untouched.
func (b *Buffer) Load(path string) error {
	data, err := b.store.ReadFile(path)
	if err != nil {
		return err
	}

	if b.opts.MaxFileSize > 0 && int64(len(data)) > b.opts.MaxFileSize {
		return errors.NewFileError("file too large", path, errors.InvalidOperation,
			fmt.Errorf("%d bytes exceeds limit of %d", len(data), b.opts.MaxFileSize))
	}

	mtype := mimetype.Detect(data)
	if b.opts.RejectBinary && (!isText(mtype) || !utf8.Valid(data)) {
		return errors.NewFileError("cannot open binary file", path, errors.BinaryContent,
			stderrors.New(mtype.String()))
	}

	b.text = string(data)
	b.mediaType = mtype.String()
	b.edited = false
	b.selStart, b.selEnd = 0, 0

	log.LogWithFields(log.F("path", path), log.F("bytes", len(data)), log.F("type", b.mediaType)).Debug("buffer loaded")
	return nil
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Save writes the content to path and clears the edited flag
func (b *Buffer) Save(path string) error {
	if err := b.store.WriteFile(path, []byte(b.text)); err != nil {
		return err
	}
	b.MarkSaved()
	return nil
}

// HasPendingEdits reports whether the content changed since the last load or save
func (b *Buffer) HasPendingEdits() bool {
	return b.edited
}

// MarkSaved clears the edited flag
func (b *Buffer) MarkSaved() {
	b.edited = false
}

// Text returns the full content
func (b *Buffer) Text() string {
	return b.text
}

// MediaType returns the detected MIME type of the loaded content
func (b *Buffer) MediaType() string {
	return b.mediaType
}

// Len returns the content length in bytes
func (b *Buffer) Len() int {
	return len(b.text)
}

// SetText replaces the whole content. The edited flag is raised only when
// the content actually changes.
func (b *Buffer) SetText(text string) {
	if text == b.text {
		return
	}
	b.text = text
	b.edited = true
	b.selStart = b.clamp(b.selStart)
	b.selEnd = b.clamp(b.selEnd)
}

// Insert replaces the selection (or inserts at the cursor) with s and moves
// the cursor after the inserted text.
func (b *Buffer) Insert(s string) {
	start, end := b.Selection()
	if s == "" && start == end {
		return
	}
	b.text = b.text[:start] + s + b.text[end:]
	b.edited = true
	b.selStart = start + len(s)
	b.selEnd = b.selStart
}

// Cursor returns the caret byte offset
func (b *Buffer) Cursor() int {
	return b.selEnd
}

// SetCursor moves the caret and drops any selection
func (b *Buffer) SetCursor(offset int) {
	offset = b.clamp(offset)
	b.selStart, b.selEnd = offset, offset
}

// Select sets the selection. start may be greater than end.
func (b *Buffer) Select(start, end int) {
	b.selStart, b.selEnd = b.clamp(start), b.clamp(end)
}

// Selection returns the ordered selection bounds
func (b *Buffer) Selection() (start, end int) {
	if b.selStart <= b.selEnd {
		return b.selStart, b.selEnd
	}
	return b.selEnd, b.selStart
}

// SelectedText returns the text under the selection
func (b *Buffer) SelectedText() string {
	start, end := b.Selection()
	return b.text[start:end]
}

// LineCol returns the 1-based line and column of the caret. Columns count
// runes, not bytes.
func (b *Buffer) LineCol() (line, col int) {
	before := b.text[:b.selEnd]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	col = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, col
}

// SetLineCol moves the caret to a 1-based line and column, clamping both
// to the content.
func (b *Buffer) SetLineCol(line, col int) {
	offset := 0
	for l := 1; l < line; l++ {
		next := strings.IndexByte(b.text[offset:], '\n')
		if next < 0 {
			break
		}
		offset += next + 1
	}
	for c := 1; c < col && offset < len(b.text) && b.text[offset] != '\n'; c++ {
		_, size := utf8.DecodeRuneInString(b.text[offset:])
		offset += size
	}
	b.SetCursor(offset)
}

func (b *Buffer) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	// Never split a rune
	for offset > 0 && offset < len(b.text) && !utf8.RuneStart(b.text[offset]) {
		offset--
	}
	return offset
}

// Zoom returns the zoom level in percent
func (b *Buffer) Zoom() int {
	return b.zoom
}

// SetZoom sets the zoom level, rounding down to a multiple of ZoomStep and
// clamping to [MinZoom, MaxZoom]. It returns the level applied.
func (b *Buffer) SetZoom(percent int) int {
	percent -= percent % ZoomStep
	if percent > MaxZoom {
		percent = MaxZoom
	} else if percent < MinZoom {
		percent = MinZoom
	}
	b.zoom = percent
	return b.zoom
}

// ZoomIn raises the zoom level by one step
func (b *Buffer) ZoomIn() int {
	return b.SetZoom(b.zoom + ZoomStep)
}

// ZoomOut lowers the zoom level by one step
func (b *Buffer) ZoomOut() int {
	return b.SetZoom(b.zoom - ZoomStep)
}

// ZoomText formats the zoom level for the status bar
func (b *Buffer) ZoomText() string {
	return fmt.Sprintf(" %d%%", b.zoom)
}
