// Package workspace assembles the editor core: the tab registry, the
// project tree, the file clipboard and the optional disk watcher, all
// sharing one filesystem gateway, event bus and status bar.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"edshell/internal/buffer"
	"edshell/internal/clipboard"
	"edshell/internal/config"
	"edshell/internal/errors"
	"edshell/internal/events"
	"edshell/internal/explorer"
	"edshell/internal/fsops"
	"edshell/internal/log"
	"edshell/internal/status"
	"edshell/internal/watch"
	"edshell/internal/workarea"
	"edshell/pkg/pathutil"
)

// Workspace owns every core component of one editor window. It is not
// safe for concurrent use; watcher changes arrive on a channel and are
// applied by the caller's loop through ApplyChange.
type Workspace struct {
	cfg        *config.Config
	configPath string
	oneShot    bool
	treeDepth  int

	fs     fsops.Gateway
	bus    *events.Bus
	bar    *status.Bar
	output *status.Output

	tabs    *workarea.Registry
	tree    *explorer.Tree
	clip    *clipboard.Clipboard
	watcher *watch.Watcher
}

// Option customises a Workspace
type Option func(*Workspace)

// WithConfigPath records where the configuration is saved back to
func WithConfigPath(path string) Option {
	return func(w *Workspace) { w.configPath = path }
}

// OneShot is for commands that open a project for a single operation. No
// watcher runs, the project is not added to the history and Close does
// not save the configuration. A positive depth bounds how far the tree
// is listed.
func OneShot(depth int) Option {
	return func(w *Workspace) {
		w.oneShot = true
		w.treeDepth = depth
	}
}

// WithGateway swaps the local filesystem for gw
func WithGateway(gw fsops.Gateway) Option {
	return func(w *Workspace) { w.fs = gw }
}

// New builds the components from cfg. No project is open yet.
func New(cfg *config.Config, opts ...Option) (*Workspace, error) {
	if cfg == nil {
		cfg = config.New()
	}
	w := &Workspace{
		cfg:    cfg,
		fs:     fsops.New(),
		bus:    events.NewBus(),
		bar:    status.NewBar(),
		output: status.NewOutput(status.DefaultOutputLines),
	}
	for _, opt := range opts {
		opt(w)
	}
	notifier := status.WithLogging(w.bar)

	w.tabs = workarea.New(w.fs, w.bus, notifier, workarea.Options{
		Buffer: buffer.Options{
			MaxFileSize:  cfg.Editor.MaxFileSize,
			RejectBinary: cfg.Editor.RejectBinary,
			Zoom:         cfg.Editor.ZoomDefault,
		},
		Metrics: workarea.Metrics{
			BaseHeight:       cfg.Tabs.BaseHeight,
			CloseButtonWidth: cfg.Tabs.CloseButtonWidth,
			MinWidth:         cfg.Tabs.MinWidth,
			EditedMarker:     cfg.Tabs.EditedMarker,
		},
	})

	tree, err := explorer.New(w.fs, w.tabs, w.bus, notifier, explorer.Options{
		ShowHidden:     cfg.Explorer.ShowHidden,
		Ignore:         cfg.Explorer.Ignore,
		FollowSymlinks: cfg.Explorer.FollowSymlinks,
		MaxDepth:       w.treeDepth,
	})
	if err != nil {
		return nil, err
	}
	w.tree = tree

	var transport clipboard.Transport = clipboard.NewMemoryTransport()
	if cfg.Clipboard.System {
		transport = clipboard.SystemTransport{}
	}
	w.clip = clipboard.New(w.fs, w.tree, w.tabs, transport, notifier)
	return w, nil
}

func (w *Workspace) Config() *config.Config          { return w.cfg }
func (w *Workspace) Tabs() *workarea.Registry        { return w.tabs }
func (w *Workspace) Tree() *explorer.Tree            { return w.tree }
func (w *Workspace) Clipboard() *clipboard.Clipboard { return w.clip }
func (w *Workspace) Status() *status.Bar             { return w.bar }
func (w *Workspace) Output() *status.Output          { return w.output }
func (w *Workspace) Events() *events.Bus             { return w.bus }

// OpenProject replaces the current project with dir. Unreadable folders
// below dir are reported in the output panel but do not fail the open.
// The directory is remembered in the configuration unless the workspace
// is OneShot.
func (w *Workspace) OpenProject(dir string) error {
	err := w.tree.OpenRoot(dir)
	if err != nil {
		target, absErr := filepath.Abs(pathutil.SplitQuoted(strings.TrimSpace(dir)))
		if absErr != nil || w.tree.RootPath() != target || !w.fs.IsDirectory(target) {
			return err
		}
		w.output.Appendf("warning: %v", err)
	}

	root := w.tree.RootPath()
	if !w.oneShot {
		w.cfg.RememberProject(root)
		if w.cfg.Watch.Enabled {
			w.startWatcher(root)
		}
	}
	w.output.Appendf("Opened project %s (%d entries)", root, w.tree.Len()-1)
	return nil
}

func (w *Workspace) startWatcher(root string) {
	w.stopWatcher()
	debounce := time.Duration(w.cfg.Watch.DebounceMS) * time.Millisecond
	watcher, err := watch.New(debounce, func(name string) bool { return !w.tree.Shows(name) })
	if err != nil {
		log.LogWithError(err).Warn("disk watcher unavailable")
		return
	}
	if err := watcher.AddTree(root); err != nil {
		log.LogWithError(err).Warn("disk watcher unavailable")
		watcher.Stop()
		return
	}
	if err := watcher.Start(); err != nil {
		log.LogWithError(err).Warn("disk watcher unavailable")
		watcher.Stop()
		return
	}
	w.watcher = watcher
}

func (w *Workspace) stopWatcher() {
	if w.watcher != nil {
		w.watcher.Stop()
		w.watcher = nil
	}
}

// Changes delivers directory changes made by other programs. It is nil
// when no watcher runs.
func (w *Workspace) Changes() <-chan watch.Change {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Changes()
}

// ApplyChange refreshes the tree node for change.Dir, or its nearest
// ancestor still in the tree.
func (w *Workspace) ApplyChange(change watch.Change) error {
	root := w.tree.RootPath()
	if root == "" {
		return nil
	}
	for dir := filepath.Clean(change.Dir); ; dir = filepath.Dir(dir) {
		if id, ok := w.tree.Lookup(dir); ok {
			if n, _ := w.tree.Node(id); n.IsDir {
				return w.tree.Refresh(id)
			}
		}
		if dir == root || filepath.Dir(dir) == dir {
			return nil
		}
	}
}

// OpenFile opens path in a tab, as a preview when temporary is set
func (w *Workspace) OpenFile(path string, temporary bool) (*workarea.Tab, error) {
	open := w.tabs.SelectOrOpen
	if temporary {
		open = w.tabs.OpenTemporary
	}
	tab, err := open(path)
	if err != nil {
		w.bar.SetMessage(err.Error(), status.Message)
		w.output.Appendf("error: %v", err)
		return nil, err
	}
	if entry, err := w.fs.Stat(tab.Path()); err == nil {
		w.bar.SetMessage(fmt.Sprintf("Opened %s (%s)", tab.Name(), humanize.Bytes(uint64(entry.Size))), status.Message)
	}
	return tab, nil
}

// node resolves path to its tree node
func (w *Workspace) node(path string) (explorer.NodeID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return explorer.NoNode, errors.NewFileError("invalid path", path, errors.InvalidName, err)
	}
	id, ok := w.tree.Lookup(abs)
	if !ok {
		return explorer.NoNode, errors.NewFileError("not in the project", abs, errors.NotFound, nil)
	}
	return id, nil
}

// Create makes an empty file or directory called name inside parentDir
func (w *Workspace) Create(parentDir, name string, isDir bool) (string, error) {
	parent, err := w.node(parentDir)
	if err != nil {
		return "", err
	}
	if _, err := w.tree.CreateChild(parent, name, isDir); err != nil {
		return "", err
	}
	return filepath.Join(w.tree.ResolvePath(parent), name), nil
}

// Rename renames the entry at path
func (w *Workspace) Rename(path, newName string) (string, error) {
	id, err := w.node(path)
	if err != nil {
		return "", err
	}
	oldPath := w.tree.ResolvePath(id)
	if err := w.tree.Rename(id, newName); err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(oldPath), newName), nil
}

// Delete removes the entry at path from disk, the tree and the tabs
func (w *Workspace) Delete(path string) error {
	id, err := w.node(path)
	if err != nil {
		return err
	}
	return w.tree.Delete(id)
}

// Transfer copies, or with move set cuts, src and pastes it into destDir
func (w *Workspace) Transfer(src, destDir string, move bool) (clipboard.PasteReport, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return clipboard.PasteReport{}, errors.NewFileError("invalid path", src, errors.InvalidName, err)
	}
	if move {
		err = w.clip.Cut(abs)
	} else {
		err = w.clip.Copy(abs)
	}
	if err != nil {
		return clipboard.PasteReport{}, err
	}
	dest, err := w.node(destDir)
	if err != nil {
		return clipboard.PasteReport{}, err
	}
	report, err := w.clip.Paste(dest)
	for path, failure := range report.Failed {
		w.output.Appendf("paste %s: %v", path, failure)
	}
	return report, err
}

// Close stops the watcher and drops every tab, including those with
// pending edits; check Tabs().Unsaved() first. The configuration is saved
// back when WithConfigPath was given and the workspace is not OneShot.
func (w *Workspace) Close() error {
	w.stopWatcher()
	w.tabs.CloseAll()
	w.tree.Close()
	if w.configPath == "" || w.oneShot {
		return nil
	}
	if err := config.SaveConfig(w.cfg, w.configPath); err != nil {
		return errors.Wrap(err, "saving configuration")
	}
	return nil
}
