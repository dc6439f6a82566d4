// Package clipboard implements copy, cut and paste of filesystem entries
// inside the project tree.
package clipboard

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"edshell/internal/errors"
	"edshell/internal/explorer"
	"edshell/internal/fsops"
	"edshell/internal/log"
	"edshell/internal/status"
)

// Mode is the remembered action applied at the next paste
type Mode int

const (
	Copy Mode = iota
	Cut
)

func (m Mode) String() string {
	if m == Cut {
		return "cut"
	}
	return "copy"
}

// Intent is the last copy or cut request
type Intent struct {
	SourcePath string
	Mode       Mode
}

// maxUniqueAttempts bounds the search for a free "name_(n).ext"
const maxUniqueAttempts = 1000

// Tree is the part of the project tree a paste updates
type Tree interface {
	ResolvePath(id explorer.NodeID) string
	Node(id explorer.NodeID) (explorer.Node, bool)
	Lookup(path string) (explorer.NodeID, bool)
	InsertChild(parent explorer.NodeID, name string, isDir bool) (explorer.NodeID, error)
	Delete(id explorer.NodeID) error
}

// PasteReport lists what a paste did per clipboard entry
type PasteReport struct {
	// Pasted holds the destination path of every entry that was copied
	Pasted []string
	// Failed maps source paths to the reason they were skipped
	Failed map[string]error
	// Moved is set when a cut source was removed after its copy
	Moved bool
}

// Clipboard owns the copy/cut intent
type Clipboard struct {
	fs        fsops.Gateway
	tree      Tree
	tabs      explorer.TabSync
	transport Transport
	notifier  status.Notifier
	intent    *Intent
}

// New creates a clipboard. A nil transport keeps the file list in memory,
// nil tabs skips tab updates on a move.
func New(gw fsops.Gateway, tree Tree, tabs explorer.TabSync, transport Transport, notifier status.Notifier) *Clipboard {
	if transport == nil {
		transport = NewMemoryTransport()
	}
	if notifier == nil {
		notifier = status.Discard{}
	}
	return &Clipboard{
		fs:        gw,
		tree:      tree,
		tabs:      tabs,
		transport: transport,
		notifier:  notifier,
	}
}

// Copy records path for copying and publishes it
func (c *Clipboard) Copy(path string) error {
	return c.record(path, Copy)
}

// Cut records path for moving and publishes it
func (c *Clipboard) Cut(path string) error {
	return c.record(path, Cut)
}

func (c *Clipboard) record(path string, mode Mode) error {
	path = filepath.Clean(path)
	if !c.fs.Exists(path) {
		return errors.NewFileError(mode.String()+" failed", path, errors.NotFound, nil)
	}
	if err := c.transport.Publish([]string{path}); err != nil {
		return err
	}
	c.intent = &Intent{SourcePath: path, Mode: mode}
	verb := "Copied"
	if mode == Cut {
		verb = "Cut"
	}
	c.notifier.SetMessage(fmt.Sprintf("%s %s", verb, filepath.Base(path)), status.Message)
	log.LogWithFields(log.F("path", path), log.F("mode", mode.String())).Debug("clipboard set")
	return nil
}

// Intent returns the last recorded intent
func (c *Clipboard) Intent() (Intent, bool) {
	if c.intent == nil {
		return Intent{}, false
	}
	return *c.intent, true
}

// CanPaste reports whether the clipboard holds a file list right now
func (c *Clipboard) CanPaste() bool {
	files, err := c.transport.Files()
	return err == nil && len(files) > 0
}

// Paste copies every clipboard entry into the directory dest and mirrors
// the copies in the tree. An entry whose name is taken is pasted as
// "name_(n).ext". Failures skip only their entry. When the intent is Cut
// the source is deleted after its copy succeeds, so a second paste of the
// same cut reports the source as missing.
func (c *Clipboard) Paste(dest explorer.NodeID) (PasteReport, error) {
	report := PasteReport{Failed: map[string]error{}}

	n, ok := c.tree.Node(dest)
	if !ok {
		return report, errors.NewFileError("paste failed", "", errors.NotFound, fmt.Errorf("no tree node %d", dest))
	}
	destDir := c.tree.ResolvePath(dest)
	if !n.IsDir {
		return report, errors.NewFileError("paste destination is not a directory", destDir, errors.InvalidOperation, nil)
	}

	files, err := c.transport.Files()
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		return report, errors.NewFileError("nothing to paste", destDir, errors.InvalidOperation, nil)
	}

	cut := c.intent != nil && c.intent.Mode == Cut
	var errs []error
	for _, src := range files {
		src = filepath.Clean(src)
		moving := cut && src == c.intent.SourcePath

		if moving && filepath.Dir(src) == destDir && c.fs.Exists(src) {
			// Moving into the same directory leaves it where it is
			report.Pasted = append(report.Pasted, src)
			continue
		}

		target, err := c.pasteOne(src, dest, destDir)
		if err != nil {
			report.Failed[src] = err
			errs = append(errs, err)
			continue
		}
		report.Pasted = append(report.Pasted, target)

		if moving {
			if err := c.removeSource(src, target); err != nil {
				report.Failed[src] = err
				errs = append(errs, err)
				continue
			}
			report.Moved = true
		}
	}

	c.notifier.SetMessage(summary(report), status.Message)
	log.LogWithFields(
		log.F("dest", destDir),
		log.F("pasted", len(report.Pasted)),
		log.F("failed", len(report.Failed)),
	).Info("paste finished")
	return report, stderrors.Join(errs...)
}

func (c *Clipboard) pasteOne(src string, dest explorer.NodeID, destDir string) (string, error) {
	entry, err := c.fs.Stat(src)
	if err != nil {
		return "", err
	}
	target, err := c.uniqueTarget(filepath.Join(destDir, entry.Name))
	if err != nil {
		return "", err
	}

	isDir := entry.IsDir && !entry.IsSymlink
	if isDir {
		err = c.fs.CopyDirectoryRecursive(src, target)
	} else {
		err = c.fs.CopyFile(src, target)
	}
	if err != nil && !c.fs.Exists(target) {
		return "", err
	}

	// A partial directory copy is still shown
	if _, insErr := c.tree.InsertChild(dest, filepath.Base(target), isDir); insErr != nil {
		log.LogWithError(insErr).Warn("pasted entry not added to tree")
	}
	return target, err
}

// uniqueTarget returns path, or the first free "base_(n).ext" beside it
func (c *Clipboard) uniqueTarget(path string) (string, error) {
	if !c.fs.Exists(path) {
		return path, nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; counter <= maxUniqueAttempts; counter++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if !c.fs.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.NewFileError(fmt.Sprintf("no free name after %d attempts", maxUniqueAttempts), path, errors.AlreadyExists, nil)
}

// removeSource finishes a move. Tabs follow the entry to its new path
// before the original is deleted so they survive the delete.
func (c *Clipboard) removeSource(src, target string) error {
	isDir := c.fs.IsDirectory(src)
	if c.tabs != nil {
		c.tabs.RenamePath(src, target, isDir)
	}
	if id, ok := c.tree.Lookup(src); ok {
		return c.tree.Delete(id)
	}
	return c.fs.Delete(src)
}

func summary(r PasteReport) string {
	verb := "Pasted"
	if r.Moved {
		verb = "Moved"
	}
	switch {
	case len(r.Failed) == 0 && len(r.Pasted) == 1:
		return fmt.Sprintf("%s %s", verb, filepath.Base(r.Pasted[0]))
	case len(r.Failed) == 0:
		return fmt.Sprintf("%s %d items", verb, len(r.Pasted))
	default:
		return fmt.Sprintf("%s %d items, %d failed", verb, len(r.Pasted), len(r.Failed))
	}
}
