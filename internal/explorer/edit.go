package explorer

import (
	"edshell/internal/errors"
)

// EditState is the in-place rename state of the tree
type EditState int

const (
	Idle EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

type editState struct {
	active bool
	node   NodeID
}

// BeginEdit starts an in-place rename of id. Any edit already in progress
// is cancelled.
func (t *Tree) BeginEdit(id NodeID) error {
	if t.arena.get(id) == nil {
		return unknownNode("edit", id)
	}
	t.edit = editState{active: true, node: id}
	return nil
}

// EditState reports the current state and the node being edited
func (t *Tree) EditState() (EditState, NodeID) {
	if !t.edit.active {
		return Idle, NoNode
	}
	return Editing, t.edit.node
}

// CommitEdit applies newName to the node being edited. Success or failure,
// the tree returns to Idle; on failure the node keeps its name and the
// error is posted to the status line.
func (t *Tree) CommitEdit(newName string) error {
	if !t.edit.active {
		return errors.NewFileError("no rename in progress", "", errors.InvalidOperation, nil)
	}
	id := t.edit.node
	t.edit = editState{}
	return t.Rename(id, newName)
}

// CancelEdit abandons the rename in progress
func (t *Tree) CancelEdit() {
	t.edit = editState{}
}
