// Package explorer mirrors a project directory as a tree and keeps that
// tree, the filesystem and the open tabs consistent across rename, delete
// and create operations.
package explorer

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"edshell/internal/errors"
	"edshell/internal/events"
	"edshell/internal/fsops"
	"edshell/internal/log"
	"edshell/internal/status"
	"edshell/pkg/pathutil"

	"github.com/gobwas/glob"
)

// TabSync is told about paths that moved or disappeared so open editors
// can follow. The tab registry implements it.
type TabSync interface {
	RenamePath(oldPrefix, newPrefix string, isDirectory bool) int
	DeletePath(path string, isDirectory bool) int
}

type noTabs struct{}

func (noTabs) RenamePath(string, string, bool) int { return 0 }
func (noTabs) DeletePath(string, bool) int         { return 0 }

// Options configures which entries are shown
type Options struct {
	ShowHidden     bool
	Ignore         []string
	FollowSymlinks bool
	// MaxDepth stops OpenRoot from listing directories deeper than this
	// many levels below the root. 0 means no limit.
	MaxDepth int
}

// Tree is the project explorer model. It is not safe for concurrent use.
type Tree struct {
	fs       fsops.Gateway
	tabs     TabSync
	emitter  events.Emitter
	notifier status.Notifier
	opts     Options
	ignore   []glob.Glob

	arena  arena
	root   NodeID
	prefix string

	edit editState
}

// New creates an empty tree. tabs, emitter and notifier may be nil.
func New(gw fsops.Gateway, tabs TabSync, emitter events.Emitter, notifier status.Notifier, opts Options) (*Tree, error) {
	if tabs == nil {
		tabs = noTabs{}
	}
	if emitter == nil {
		emitter = events.Nop{}
	}
	if notifier == nil {
		notifier = status.Discard{}
	}
	t := &Tree{
		fs:       gw,
		tabs:     tabs,
		emitter:  emitter,
		notifier: notifier,
		opts:     opts,
		root:     NoNode,
	}
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, errors.NewConfigError("bad ignore pattern", pattern, errors.InvalidConfig, err)
		}
		t.ignore = append(t.ignore, g)
	}
	return t, nil
}

// OpenRoot replaces the tree with the directory at folderPath and
// populates it recursively, down to Options.MaxDepth. Enumeration failures below the root are
// returned and posted to the status line; the nodes gathered so far stay.
func (t *Tree) OpenRoot(folderPath string) error {
	folderPath = pathutil.SplitQuoted(strings.TrimSpace(folderPath))
	if folderPath == "" {
		return errors.NewFileError("cannot open folder", "", errors.InvalidName, stderrors.New("empty path"))
	}
	abs, err := filepath.Abs(folderPath)
	if err != nil {
		return errors.NewFileError("cannot open folder", folderPath, errors.InvalidName, err)
	}
	if !t.fs.Exists(abs) {
		return errors.NewFileError("cannot open folder", abs, errors.NotFound, nil)
	}
	if !t.fs.IsDirectory(abs) {
		return errors.NewFileError("cannot open folder", abs, errors.InvalidOperation, stderrors.New("not a directory"))
	}

	t.edit = editState{}
	t.arena.reset()
	t.prefix = filepath.Dir(abs)
	t.root = t.arena.add(filepath.Base(abs), true, false, NoNode)
	t.arena.get(t.root).expanded = true

	visited := map[string]bool{}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		visited[real] = true
	}
	err = t.populate(abs, t.root, visited, t.opts.MaxDepth)
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: abs})
	if err != nil {
		t.notifier.SetMessage(fmt.Sprintf("Some folders could not be read: %v", err), status.Message)
		log.LogWithError(err).Warn("project tree incomplete")
	}
	log.LogWithFields(log.F("root", abs), log.F("nodes", t.arena.live())).Info("project opened")
	return err
}

// Close drops the tree
func (t *Tree) Close() {
	if t.root == NoNode {
		return
	}
	t.edit = editState{}
	t.arena.reset()
	t.root = NoNode
	t.prefix = ""
	t.emitter.Emit(events.Event{Kind: events.TreeChanged})
}

// PopulateSubtree adds every shown entry of dirPath beneath parent,
// recursing into directories. Unreadable directories contribute no
// children; their errors are joined into the result.
func (t *Tree) PopulateSubtree(dirPath string, parent NodeID) error {
	if t.arena.get(parent) == nil {
		return errors.NewFileError("cannot populate", dirPath, errors.InvalidOperation, stderrors.New("unknown parent node"))
	}
	visited := map[string]bool{}
	if real, err := filepath.EvalSymlinks(dirPath); err == nil {
		visited[real] = true
	}
	return t.populate(dirPath, parent, visited, 0)
}

// populate lists dirPath into parent. A positive depth bounds how many
// directory levels are listed.
func (t *Tree) populate(dirPath string, parent NodeID, visited map[string]bool, depth int) error {
	entries, err := t.fs.ListEntries(dirPath)
	if err != nil {
		return err
	}

	var failures []error
	for _, e := range entries {
		if !t.Shows(e.Name) {
			continue
		}
		id := t.arena.add(e.Name, e.IsDir, e.IsSymlink, parent)
		if !e.IsDir || depth == 1 {
			continue
		}
		child := filepath.Join(dirPath, e.Name)
		if e.IsSymlink {
			if !t.opts.FollowSymlinks {
				continue
			}
			real, err := filepath.EvalSymlinks(child)
			if err != nil || visited[real] {
				// Loop or dangling link: list it, do not descend
				continue
			}
			visited[real] = true
		}
		next := depth
		if next > 0 {
			next--
		}
		if err := t.populate(child, id, visited, next); err != nil {
			failures = append(failures, err)
		}
	}
	return stderrors.Join(failures...)
}

// Shows reports whether an entry called name appears in the tree. It
// applies the hidden-file rule and the ignore globs.
func (t *Tree) Shows(name string) bool {
	if !t.opts.ShowHidden && pathutil.IsHidden(name) {
		return false
	}
	for _, g := range t.ignore {
		if g.Match(name) {
			return false
		}
	}
	return true
}

// Root returns the root node, or NoNode before OpenRoot
func (t *Tree) Root() NodeID {
	return t.root
}

// RootPath returns the absolute path of the project directory
func (t *Tree) RootPath() string {
	if t.root == NoNode {
		return ""
	}
	return t.ResolvePath(t.root)
}

// ResolvePath builds the absolute path of id from the current names of its
// ancestors. It returns "" for an unknown node.
func (t *Tree) ResolvePath(id NodeID) string {
	n := t.arena.get(id)
	if n == nil {
		return ""
	}
	var parts []string
	for cur := id; cur != NoNode; {
		n := t.arena.get(cur)
		parts = append(parts, n.name)
		cur = n.parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return filepath.Join(append([]string{t.prefix}, parts...)...)
}

// Lookup finds the node for an absolute path
func (t *Tree) Lookup(path string) (NodeID, bool) {
	if t.root == NoNode {
		return NoNode, false
	}
	rootPath := t.RootPath()
	path = filepath.Clean(path)
	if !pathutil.HasPrefix(path, rootPath) {
		return NoNode, false
	}
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return NoNode, false
	}
	cur := t.root
	if rel == "." {
		return cur, true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		next, ok := t.childNamed(cur, part)
		if !ok {
			return NoNode, false
		}
		cur = next
	}
	return cur, true
}

func (t *Tree) childNamed(parent NodeID, name string) (NodeID, bool) {
	p := t.arena.get(parent)
	if p == nil {
		return NoNode, false
	}
	for _, c := range p.children {
		if t.arena.nodes[c].name == name {
			return c, true
		}
	}
	return NoNode, false
}

// Node returns a snapshot of id
func (t *Tree) Node(id NodeID) (Node, bool) {
	n := t.arena.get(id)
	if n == nil {
		return Node{}, false
	}
	return Node{
		ID:        id,
		Name:      n.name,
		IsDir:     n.isDir,
		IsSymlink: n.isSymlink,
		Parent:    n.parent,
		Expanded:  n.expanded,
	}, true
}

// Children returns the child IDs of id in display order
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.arena.get(id)
	if n == nil {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// Len returns the number of nodes in the tree
func (t *Tree) Len() int {
	return t.arena.live()
}

// Walk visits the tree depth first from the root. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if t.root != NoNode {
		t.walk(t.root, 0, fn)
	}
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.Children(id) {
		t.walk(c, depth+1, fn)
	}
}

// Row is one line of the rendered tree
type Row struct {
	ID    NodeID
	Depth int
}

// Rows lists the nodes a view should draw: the root and the descendants of
// expanded directories.
func (t *Tree) Rows() []Row {
	var rows []Row
	t.Walk(func(id NodeID, depth int) bool {
		rows = append(rows, Row{ID: id, Depth: depth})
		n := t.arena.get(id)
		return n.isDir && n.expanded
	})
	return rows
}

// Expand shows the children of a directory
func (t *Tree) Expand(id NodeID) {
	t.setExpanded(id, true)
}

// Collapse hides the children of a directory
func (t *Tree) Collapse(id NodeID) {
	t.setExpanded(id, false)
}

// Toggle flips the expanded state of a directory
func (t *Tree) Toggle(id NodeID) {
	if n := t.arena.get(id); n != nil {
		t.setExpanded(id, !n.expanded)
	}
}

// IsExpanded reports whether id is an expanded directory
func (t *Tree) IsExpanded(id NodeID) bool {
	n := t.arena.get(id)
	return n != nil && n.isDir && n.expanded
}

func (t *Tree) setExpanded(id NodeID, expanded bool) {
	n := t.arena.get(id)
	if n == nil || !n.isDir || n.expanded == expanded {
		return
	}
	n.expanded = expanded
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: t.ResolvePath(id)})
}

// ExpandPath expands every ancestor of path so its node becomes a row
func (t *Tree) ExpandPath(path string) (NodeID, bool) {
	id, ok := t.Lookup(path)
	if !ok {
		return NoNode, false
	}
	for cur := t.arena.get(id).parent; cur != NoNode; cur = t.arena.get(cur).parent {
		t.Expand(cur)
	}
	return id, true
}

// Refresh brings the children of directory id back in line with disk.
// Entries that vanished are dropped, new ones are added (directories
// populated), and survivors keep their IDs and expanded state.
func (t *Tree) Refresh(id NodeID) error {
	n := t.arena.get(id)
	if n == nil || !n.isDir {
		return errors.NewFileError("cannot refresh", t.ResolvePath(id), errors.InvalidOperation, stderrors.New("not a directory node"))
	}
	dirPath := t.ResolvePath(id)
	entries, err := t.fs.ListEntries(dirPath)
	if err != nil {
		return err
	}

	existing := map[string]NodeID{}
	for _, c := range n.children {
		existing[t.arena.nodes[c].name] = c
	}

	var failures []error
	changed := false
	children := make([]NodeID, 0, len(entries))
	for _, e := range entries {
		if !t.Shows(e.Name) {
			continue
		}
		if c, ok := existing[e.Name]; ok && t.arena.nodes[c].isDir == e.IsDir {
			delete(existing, e.Name)
			children = append(children, c)
			continue
		}
		changed = true
		// add appends to the parent; the list is rebuilt below
		c := t.arena.add(e.Name, e.IsDir, e.IsSymlink, NoNode)
		t.arena.nodes[c].parent = id
		children = append(children, c)
		if e.IsDir && (!e.IsSymlink || t.opts.FollowSymlinks) {
			if err := t.PopulateSubtree(filepath.Join(dirPath, e.Name), c); err != nil {
				failures = append(failures, err)
			}
		}
	}
	for _, gone := range existing {
		changed = true
		t.arena.kill(gone)
	}

	// arena.add may have grown the slice; re-fetch the parent
	n = t.arena.get(id)
	if !changed && len(children) == len(n.children) {
		return stderrors.Join(failures...)
	}
	n.children = children
	if t.edit.active && t.arena.get(t.edit.node) == nil {
		t.edit = editState{}
	}
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: dirPath})
	log.LogWithFields(log.F("dir", dirPath)).Debug("tree refreshed")
	return stderrors.Join(failures...)
}
