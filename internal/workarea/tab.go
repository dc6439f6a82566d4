package workarea

import (
	"path/filepath"

	"edshell/internal/buffer"

	"github.com/google/uuid"
)

// Tab is one open document and its entry in the tab strip
type Tab struct {
	path       string
	key        string
	name       string
	marker     string
	selected   bool
	temporary  bool
	closeShown bool
	buf        *buffer.Buffer
	rect       Rect
}

func newTab(path string, buf *buffer.Buffer, marker string) *Tab {
	t := &Tab{buf: buf, marker: marker, closeShown: true}
	t.setPath(path)
	return t
}

func newScratchTab(buf *buffer.Buffer, marker string) *Tab {
	return &Tab{
		key:        "untitled-" + uuid.New().String(),
		name:       "untitled",
		buf:        buf,
		marker:     marker,
		closeShown: true,
	}
}

func (t *Tab) setPath(path string) {
	t.path = filepath.Clean(path)
	t.key = t.path
	t.name = filepath.Base(t.path)
}

// Path returns the absolute file path, or "" for a scratch tab
func (t *Tab) Path() string { return t.path }

// Key identifies the tab. It is the path for file tabs.
func (t *Tab) Key() string { return t.key }

// Name returns the file name without the edited marker
func (t *Tab) Name() string { return t.name }

// DisplayName returns the strip label, with the edited marker appended
// while the buffer has unsaved changes.
func (t *Tab) DisplayName() string {
	if t.buf.HasPendingEdits() {
		return t.name + t.marker
	}
	return t.name
}

func (t *Tab) IsSelected() bool  { return t.selected }
func (t *Tab) IsTemporary() bool { return t.temporary }
func (t *Tab) IsScratch() bool   { return t.path == "" }

// CloseButtonShown reports whether the close control is drawn
func (t *Tab) CloseButtonShown() bool { return t.closeShown }

// Buffer returns the document owned by the tab
func (t *Tab) Buffer() *buffer.Buffer { return t.buf }

// Rect returns the position computed by the last reflow
func (t *Tab) Rect() Rect { return t.rect }
