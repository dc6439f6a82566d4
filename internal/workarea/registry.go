// Package workarea owns the open editor tabs: the visible strip, the list
// of closed tabs kept for reopening, and which tab is selected.
package workarea

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"edshell/internal/buffer"
	"edshell/internal/errors"
	"edshell/internal/events"
	"edshell/internal/log"
	"edshell/internal/status"
	"edshell/pkg/pathutil"
)

// NoSelection is the selected index of an empty strip
const NoSelection = -1

// Options configures a Registry
type Options struct {
	Buffer  buffer.Options
	Metrics Metrics
	Scale   float64
}

// Registry tracks open tabs. Every tab lives in exactly one of the visible
// and closed lists, and no two tabs share a path. It is not safe for
// concurrent use.
type Registry struct {
	store    buffer.Storage
	emitter  events.Emitter
	notifier status.Notifier
	metrics  Metrics
	bufOpts  buffer.Options
	scale    float64

	visible  []*Tab
	closed   []*Tab
	selected int
}

// New creates an empty registry. emitter and notifier may be nil.
func New(store buffer.Storage, emitter events.Emitter, notifier status.Notifier, opts Options) *Registry {
	if emitter == nil {
		emitter = events.Nop{}
	}
	if notifier == nil {
		notifier = status.Discard{}
	}
	if opts.Metrics == (Metrics{}) {
		opts.Metrics = DefaultMetrics()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Registry{
		store:    store,
		emitter:  emitter,
		notifier: notifier,
		metrics:  opts.Metrics,
		bufOpts:  opts.Buffer,
		scale:    opts.Scale,
		selected: NoSelection,
	}
}

// SelectOrOpen focuses the tab for path, reopening it from the closed list
// or loading it from disk as needed. A load failure leaves the registry
// unchanged.
func (r *Registry) SelectOrOpen(path string) (*Tab, error) {
	return r.open(path, false)
}

// OpenTemporary is SelectOrOpen for a preview. A newly created tab is
// temporary and takes the place of an unedited temporary tab, if any.
// Existing tabs keep their state, while SelectOrOpen on a temporary tab
// keeps it.
func (r *Registry) OpenTemporary(path string) (*Tab, error) {
	return r.open(path, true)
}

func (r *Registry) open(path string, temporary bool) (*Tab, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewFileError("cannot open tab", path, errors.InvalidName, stderrors.New("empty path"))
	}
	path = filepath.Clean(path)

	if i := indexOf(r.visible, path); i >= 0 {
		if !temporary {
			r.Pin(r.visible[i])
		}
		r.selectIndex(i)
		return r.visible[i], nil
	}

	if i := indexOf(r.closed, path); i >= 0 {
		tab := r.closed[i]
		r.closed = remove(r.closed, i)
		tab.closeShown = true
		r.visible = append(r.visible, tab)
		r.reflow()
		r.selectIndex(len(r.visible) - 1)
		log.LogWithFields(log.F("path", path)).Debug("tab reopened")
		return tab, nil
	}

	buf := buffer.New(r.store, r.bufOpts)
	if err := buf.Load(path); err != nil {
		return nil, err
	}
	tab := newTab(path, buf, r.metrics.EditedMarker)
	tab.temporary = temporary

	if temporary {
		if i := r.previewIndex(); i >= 0 {
			old := r.visible[i]
			old.selected = false
			r.visible[i] = tab
			if r.selected == i {
				r.selected = NoSelection
			}
			r.reflow()
			r.selectIndex(i)
			log.LogWithFields(log.F("path", path), log.F("replaced", old.path)).Debug("preview tab replaced")
			return tab, nil
		}
	}

	r.visible = append(r.visible, tab)
	r.reflow()
	r.selectIndex(len(r.visible) - 1)
	log.LogWithFields(log.F("path", path), log.F("temporary", temporary)).Debug("tab opened")
	return tab, nil
}

// previewIndex finds a visible temporary tab that can be replaced
func (r *Registry) previewIndex() int {
	for i, t := range r.visible {
		if t.temporary && !t.buf.HasPendingEdits() {
			return i
		}
	}
	return -1
}

// NewScratch opens an untitled tab with an empty buffer and selects it
func (r *Registry) NewScratch() *Tab {
	tab := newScratchTab(buffer.New(r.store, r.bufOpts), r.metrics.EditedMarker)
	r.visible = append(r.visible, tab)
	r.reflow()
	r.selectIndex(len(r.visible) - 1)
	return tab
}

// Pin turns a temporary tab into a regular one
func (r *Registry) Pin(tab *Tab) {
	if tab != nil && tab.temporary {
		tab.temporary = false
		r.emitter.Emit(events.Event{Kind: events.TabsChanged, Path: tab.path})
	}
}

// Select focuses a visible tab. Tabs that are not visible are ignored.
func (r *Registry) Select(tab *Tab) {
	if i := indexOfTab(r.visible, tab); i >= 0 {
		r.selectIndex(i)
	}
}

// SelectNext moves the selection by delta, wrapping around the strip
func (r *Registry) SelectNext(delta int) {
	n := len(r.visible)
	if n == 0 {
		return
	}
	i := r.selected
	if i < 0 {
		i = 0
	}
	r.selectIndex(((i+delta)%n + n) % n)
}

func (r *Registry) selectIndex(i int) {
	if r.selected == i && i >= 0 && r.visible[i].selected {
		return
	}
	if cur := r.Selected(); cur != nil {
		cur.selected = false
	}
	r.selected = i
	var path string
	if i >= 0 {
		r.visible[i].selected = true
		path = r.visible[i].path
	}
	r.emitter.Emit(events.Event{Kind: events.SelectionChanged, Path: path})
	r.RefreshStatus()
}

// Close removes tab from the strip. Unedited temporary tabs are destroyed,
// others move to the closed list. When the selected tab goes the right neighbor
// takes over, or the left one when there is none.
func (r *Registry) Close(tab *Tab) {
	i := indexOfTab(r.visible, tab)
	if i < 0 {
		return
	}
	wasSelected := tab.selected
	tab.selected = false
	tab.closeShown = false
	r.visible = remove(r.visible, i)

	if tab.temporary && tab.buf.HasPendingEdits() {
		tab.temporary = false
	}
	if !tab.temporary && indexOfTab(r.closed, tab) < 0 {
		r.closed = append(r.closed, tab)
	}

	switch {
	case i < r.selected:
		r.selected--
	case wasSelected:
		r.selected = NoSelection
	}

	r.reflow()
	if wasSelected {
		r.repairSelection(i)
	}
	if len(r.visible) == 0 {
		r.clearStatus()
	}
	log.LogWithFields(log.F("path", tab.path), log.F("temporary", tab.temporary)).Debug("tab closed")
}

// CloseSelected closes the selected tab, if any
func (r *Registry) CloseSelected() {
	if tab := r.Selected(); tab != nil {
		r.Close(tab)
	}
}

// repairSelection selects the tab now at index i, else the one before it
func (r *Registry) repairSelection(i int) {
	switch {
	case len(r.visible) == 0:
		if r.selected != NoSelection {
			r.selected = NoSelection
		}
		r.emitter.Emit(events.Event{Kind: events.SelectionChanged})
	case i < len(r.visible):
		r.selectIndex(i)
	default:
		r.selectIndex(len(r.visible) - 1)
	}
}

// RenamePath rewrites the path of every tab, visible or closed, that lies
// at or beneath oldPrefix. For a file only the exact path matches. It
// returns the number of tabs updated.
func (r *Registry) RenamePath(oldPrefix, newPrefix string, isDirectory bool) int {
	oldPrefix = filepath.Clean(oldPrefix)
	newPrefix = filepath.Clean(newPrefix)
	count := 0
	for _, list := range [][]*Tab{r.visible, r.closed} {
		for _, t := range list {
			if t.IsScratch() {
				continue
			}
			if !isDirectory && t.path != oldPrefix {
				continue
			}
			if next, ok := pathutil.ReplacePrefix(t.path, oldPrefix, newPrefix); ok {
				t.setPath(next)
				count++
			}
		}
	}
	if count > 0 {
		r.reflow()
		log.LogWithFields(log.F("from", oldPrefix), log.F("to", newPrefix), log.F("tabs", count)).Debug("tab paths renamed")
	}
	return count
}

// DeletePath destroys the tab for a deleted file, or every tab beneath a
// deleted directory, from both lists. It returns the number destroyed.
func (r *Registry) DeletePath(path string, isDirectory bool) int {
	path = filepath.Clean(path)
	matches := func(t *Tab) bool {
		if t.IsScratch() {
			return false
		}
		if isDirectory {
			return pathutil.HasPrefix(t.path, path)
		}
		return t.path == path
	}

	count := 0
	kept := r.closed[:0]
	for _, t := range r.closed {
		if matches(t) {
			count++
			continue
		}
		kept = append(kept, t)
	}
	clearTail(r.closed, len(kept))
	r.closed = kept

	selectedTab := r.Selected()
	selectedGone := false
	newIndex := 0
	visible := make([]*Tab, 0, len(r.visible))
	for i, t := range r.visible {
		if matches(t) {
			count++
			if t == selectedTab {
				selectedGone = true
				t.selected = false
			}
			continue
		}
		if i < r.selected {
			newIndex++
		}
		visible = append(visible, t)
	}
	if len(visible) == len(r.visible) {
		return count
	}

	r.visible = visible
	if selectedGone {
		r.selected = NoSelection
	} else if selectedTab != nil {
		r.selected = indexOfTab(r.visible, selectedTab)
	}
	r.reflow()
	if selectedGone {
		r.repairSelection(newIndex)
	}
	if len(r.visible) == 0 {
		r.clearStatus()
	}
	log.LogWithFields(log.F("path", path), log.F("tabs", count)).Debug("tabs destroyed for deleted path")
	return count
}

// CloseAll destroys every tab in both lists
func (r *Registry) CloseAll() {
	hadTabs := len(r.visible) > 0 || len(r.closed) > 0
	for _, t := range r.visible {
		t.selected = false
	}
	r.visible = nil
	r.closed = nil
	r.selected = NoSelection
	r.clearStatus()
	if hadTabs {
		r.emitter.Emit(events.Event{Kind: events.TabsChanged})
		r.emitter.Emit(events.Event{Kind: events.SelectionChanged})
	}
}

// Selected returns the selected tab, or nil when there is none
func (r *Registry) Selected() *Tab {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	return r.visible[r.selected]
}

// SelectedIndex returns the selected position, or NoSelection
func (r *Registry) SelectedIndex() int {
	if r.Selected() == nil {
		return NoSelection
	}
	return r.selected
}

// Visible returns the open tabs in strip order
func (r *Registry) Visible() []*Tab {
	return append([]*Tab(nil), r.visible...)
}

// Hidden returns the closed tabs kept for reopening, oldest first
func (r *Registry) Hidden() []*Tab {
	return append([]*Tab(nil), r.closed...)
}

// Find returns the tab for path from either list
func (r *Registry) Find(path string) *Tab {
	path = filepath.Clean(path)
	if i := indexOf(r.visible, path); i >= 0 {
		return r.visible[i]
	}
	if i := indexOf(r.closed, path); i >= 0 {
		return r.closed[i]
	}
	return nil
}

// Unsaved returns every tab, visible or closed, with pending edits
func (r *Registry) Unsaved() []*Tab {
	var out []*Tab
	for _, list := range [][]*Tab{r.visible, r.closed} {
		for _, t := range list {
			if t.buf.HasPendingEdits() {
				out = append(out, t)
			}
		}
	}
	return out
}

// Save writes a file tab's buffer back to disk. Scratch tabs need SaveAs.
func (r *Registry) Save(tab *Tab) error {
	if tab == nil {
		return errors.New("no tab to save")
	}
	if tab.IsScratch() {
		return errors.NewFileError("cannot save untitled tab", "", errors.InvalidOperation, stderrors.New("no path"))
	}
	if err := tab.buf.Save(tab.path); err != nil {
		return err
	}
	tab.temporary = false
	r.reflow()
	return nil
}

// SaveSelected saves the selected tab
func (r *Registry) SaveSelected() error {
	return r.Save(r.Selected())
}

// SaveAs writes tab to path and rekeys it. path must not belong to
// another tab.
func (r *Registry) SaveAs(tab *Tab, path string) error {
	if tab == nil {
		return errors.New("no tab to save")
	}
	if strings.TrimSpace(path) == "" {
		return errors.NewFileError("cannot save tab", path, errors.InvalidName, stderrors.New("empty path"))
	}
	path = filepath.Clean(path)
	if other := r.Find(path); other != nil && other != tab {
		return errors.NewFileError("cannot save tab", path, errors.AlreadyExists, fmt.Errorf("%s is open in another tab", other.name))
	}
	if err := tab.buf.Save(path); err != nil {
		return err
	}
	tab.setPath(path)
	tab.temporary = false
	r.reflow()
	return nil
}

// Layout returns the placement of every visible tab
func (r *Registry) Layout() []Rect {
	return r.metrics.layout(r.visible, r.scale)
}

// Scale returns the current display scale
func (r *Registry) Scale() float64 {
	return r.scale
}

// SetScale applies a new display scale and reflows the strip
func (r *Registry) SetScale(scale float64) {
	if scale <= 0 || scale == r.scale {
		return
	}
	r.scale = scale
	r.reflow()
}

// Relayout recomputes the strip after a display name changed width, as
// when a buffer gains or loses pending edits
func (r *Registry) Relayout() {
	r.reflow()
}

// TabAt returns the visible tab under a strip point and whether the point
// is on its close control.
func (r *Registry) TabAt(x, y int) (*Tab, bool) {
	for i, rect := range r.Layout() {
		if !rect.Contains(x, y) {
			continue
		}
		t := r.visible[i]
		closeW := scaled(r.metrics.CloseButtonWidth, r.scale)
		onClose := t.closeShown && closeW > 0 && x >= rect.X+rect.Width-closeW
		return t, onClose
	}
	return nil, false
}

// reflow recomputes every visible tab's rect and announces the change
func (r *Registry) reflow() {
	for i, rect := range r.Layout() {
		r.visible[i].rect = rect
	}
	r.emitter.Emit(events.Event{Kind: events.TabsChanged})
}

// RefreshStatus republishes the caret position, zoom and encoding of the
// selected tab.
func (r *Registry) RefreshStatus() {
	tab := r.Selected()
	if tab == nil {
		r.clearStatus()
		return
	}
	line, col := tab.buf.LineCol()
	r.notifier.SetMessage(fmt.Sprintf("Ln %d, Col %d", line, col), status.Position)
	r.notifier.SetMessage(tab.buf.ZoomText(), status.Zoom)
	r.notifier.SetMessage(encodingOf(tab.buf.MediaType()), status.Encoding)
}

func (r *Registry) clearStatus() {
	r.notifier.SetMessage("", status.Position)
	r.notifier.SetMessage("", status.Zoom)
	r.notifier.SetMessage("", status.Encoding)
}

func encodingOf(mediaType string) string {
	if _, charset, ok := strings.Cut(mediaType, "charset="); ok {
		return strings.ToUpper(charset)
	}
	return "UTF-8"
}

func indexOf(tabs []*Tab, path string) int {
	for i, t := range tabs {
		if t.path != "" && t.path == path {
			return i
		}
	}
	return -1
}

func indexOfTab(tabs []*Tab, tab *Tab) int {
	if tab == nil {
		return -1
	}
	for i, t := range tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

func remove(tabs []*Tab, i int) []*Tab {
	copy(tabs[i:], tabs[i+1:])
	tabs[len(tabs)-1] = nil
	return tabs[:len(tabs)-1]
}

func clearTail(tabs []*Tab, from int) {
	for i := from; i < len(tabs); i++ {
		tabs[i] = nil
	}
}
