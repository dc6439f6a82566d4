package explorer

import (
	"fmt"
	"path/filepath"
	"sort"

	"edshell/internal/errors"
	"edshell/internal/events"
	"edshell/internal/log"
	"edshell/internal/status"
)

func unknownNode(op string, id NodeID) error {
	return errors.NewFileError(op+" failed", "", errors.NotFound, fmt.Errorf("no tree node %d", id))
}

// fail posts err to the status line and returns it
func (t *Tree) fail(err error) error {
	t.notifier.SetMessage(err.Error(), status.Message)
	log.LogWithError(err).Warn("explorer operation failed")
	return err
}

// Rename renames the entry for id on disk, then updates the node and the
// tabs beneath it. A new name the tree filters out drops the node. On
// failure nothing changes.
func (t *Tree) Rename(id NodeID, newName string) error {
	n := t.arena.get(id)
	if n == nil {
		return t.fail(unknownNode("rename", id))
	}
	if err := ValidateName(newName); err != nil {
		return t.fail(err)
	}
	if newName == n.name {
		return nil
	}

	oldPath := t.ResolvePath(id)
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if err := t.fs.Rename(oldPath, newPath); err != nil {
		return t.fail(err)
	}

	n.name = newName
	t.tabs.RenamePath(oldPath, newPath, n.isDir)
	if !t.Shows(newName) {
		t.remove(id)
	} else if p := t.arena.get(n.parent); p != nil {
		t.sortChildren(p)
	}

	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: newPath})
	t.notifier.SetMessage(fmt.Sprintf("Renamed %s to %s", filepath.Base(oldPath), newName), status.Message)
	log.LogWithFields(log.F("from", oldPath), log.F("to", newPath)).Info("renamed")
	return nil
}

// Delete removes the entry for id from disk and drops its subtree. For a
// directory the tabs of every file beneath it are destroyed first, so they
// are gone even when the disk delete then fails. The root cannot be
// deleted.
func (t *Tree) Delete(id NodeID) error {
	n := t.arena.get(id)
	if n == nil {
		return t.fail(unknownNode("delete", id))
	}
	path := t.ResolvePath(id)
	if id == t.root {
		return t.fail(errors.NewFileError("cannot delete the project root", path, errors.InvalidOperation, nil))
	}

	if n.isDir {
		t.walk(id, 0, func(c NodeID, _ int) bool {
			if cn := t.arena.get(c); cn != nil && !cn.isDir {
				t.tabs.DeletePath(t.ResolvePath(c), false)
			}
			return true
		})
		// Tabs for entries the tree does not show
		t.tabs.DeletePath(path, true)

		if err := t.fs.Delete(path); err != nil {
			return t.fail(err)
		}
		t.remove(id)
	} else {
		if err := t.fs.Delete(path); err != nil {
			return t.fail(err)
		}
		t.remove(id)
		t.tabs.DeletePath(path, false)
	}

	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: path})
	t.notifier.SetMessage(fmt.Sprintf("Deleted %s", filepath.Base(path)), status.Message)
	log.LogWithFields(log.F("path", path), log.F("dir", n.isDir)).Info("deleted")
	return nil
}

func (t *Tree) remove(id NodeID) {
	if t.edit.active && t.isWithin(t.edit.node, id) {
		t.edit = editState{}
	}
	t.arena.detach(id)
}

// isWithin reports whether id is ancestor or id itself
func (t *Tree) isWithin(id, ancestor NodeID) bool {
	for cur := id; cur != NoNode; {
		if cur == ancestor {
			return true
		}
		n := t.arena.get(cur)
		if n == nil {
			return false
		}
		cur = n.parent
	}
	return false
}

// CreateChild creates an empty file or a directory named name inside the
// directory parent, and adds its node. A name the tree filters out is
// created on disk only and NoNode is returned.
func (t *Tree) CreateChild(parent NodeID, name string, isDir bool) (NodeID, error) {
	p := t.arena.get(parent)
	if p == nil {
		return NoNode, t.fail(unknownNode("create", parent))
	}
	if !p.isDir {
		return NoNode, t.fail(errors.NewFileError("cannot create inside a file", t.ResolvePath(parent), errors.InvalidOperation, nil))
	}
	if err := ValidateName(name); err != nil {
		return NoNode, t.fail(err)
	}

	path := filepath.Join(t.ResolvePath(parent), name)
	if _, ok := t.childNamed(parent, name); ok || t.fs.Exists(path) {
		return NoNode, t.fail(errors.NewFileError("cannot create", path, errors.AlreadyExists, nil))
	}

	var err error
	if isDir {
		err = t.fs.CreateDirectory(path)
	} else {
		err = t.fs.CreateFile(path)
	}
	if err != nil {
		return NoNode, t.fail(err)
	}

	log.LogWithFields(log.F("path", path), log.F("dir", isDir)).Info("created")
	if !t.Shows(name) {
		t.notifier.SetMessage(fmt.Sprintf("Created %s (hidden in the tree)", name), status.Message)
		return NoNode, nil
	}
	id := t.insert(parent, name, isDir, false)
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: path})
	return id, nil
}

// InsertChild adds a node for an entry that already exists on disk inside
// parent. Directories are populated from disk. An existing node of the
// same name is returned as is.
func (t *Tree) InsertChild(parent NodeID, name string, isDir bool) (NodeID, error) {
	p := t.arena.get(parent)
	if p == nil {
		return NoNode, unknownNode("insert", parent)
	}
	if !p.isDir {
		return NoNode, errors.NewFileError("cannot insert into a file", t.ResolvePath(parent), errors.InvalidOperation, nil)
	}
	if id, ok := t.childNamed(parent, name); ok {
		return id, nil
	}
	if !t.Shows(name) {
		return NoNode, nil
	}

	var isSymlink bool
	path := filepath.Join(t.ResolvePath(parent), name)
	if e, err := t.fs.Stat(path); err == nil {
		isSymlink = e.IsSymlink
	}
	id := t.insert(parent, name, isDir, isSymlink)

	var err error
	if isDir && (!isSymlink || t.opts.FollowSymlinks) {
		err = t.PopulateSubtree(path, id)
	}
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: path})
	return id, err
}

// Remove drops the node for id without touching the disk
func (t *Tree) Remove(id NodeID) {
	if id == t.root || t.arena.get(id) == nil {
		return
	}
	path := t.ResolvePath(id)
	t.remove(id)
	t.emitter.Emit(events.Event{Kind: events.TreeChanged, Path: path})
}

// insert adds a child and keeps siblings in name order, matching the
// order directory listings come back in.
func (t *Tree) insert(parent NodeID, name string, isDir, isSymlink bool) NodeID {
	id := t.arena.add(name, isDir, isSymlink, parent)
	t.sortChildren(t.arena.get(parent))
	return id
}

func (t *Tree) sortChildren(p *node) {
	sort.SliceStable(p.children, func(i, j int) bool {
		return t.arena.nodes[p.children[i]].name < t.arena.nodes[p.children[j]].name
	})
}
