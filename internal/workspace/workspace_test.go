package workspace_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"edshell/internal/config"
	"edshell/internal/errors"
	"edshell/internal/status"
	"edshell/internal/watch"
	"edshell/internal/workspace"
	"edshell/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T, mutate func(*config.Config)) (*workspace.Workspace, string) {
	t.Helper()
	cfg := config.New()
	cfg.Watch.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	ws, err := workspace.New(cfg)
	require.NoError(t, err)
	root := testutils.CreateProject(t)
	require.NoError(t, ws.OpenProject(root))
	t.Cleanup(func() { ws.Close() })
	return ws, root
}

func TestOpenProject(t *testing.T) {
	ws, root := newWorkspace(t, nil)
	assert.Equal(t, root, ws.Tree().RootPath())
	assert.Equal(t, []string{root}, ws.Config().Directories.Recent)
	assert.Equal(t, root, ws.Config().Directories.LastProject)
	assert.Contains(t, ws.Output().Tail(1)[0], "Opened project")

	err := ws.OpenProject(filepath.Join(root, "missing"))
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, root, ws.Tree().RootPath())
}

func TestNewRejectsBadIgnore(t *testing.T) {
	cfg := config.New()
	cfg.Explorer.Ignore = []string{"[oops"}
	_, err := workspace.New(cfg)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestOpenFile(t *testing.T) {
	ws, root := newWorkspace(t, nil)

	tab, err := ws.OpenFile(filepath.Join(root, "main.c"), false)
	require.NoError(t, err)
	assert.Equal(t, "main.c", tab.Name())
	assert.Equal(t, "Opened main.c (29 B)", ws.Status().Text(status.Message))
	assert.Equal(t, "Ln 1, Col 1", ws.Status().Text(status.Position))

	_, err = ws.OpenFile(filepath.Join(root, "nope.c"), false)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, ws.Output().Tail(1)[0], "error:")
}

func TestRenameFollowsTabs(t *testing.T) {
	ws, root := newWorkspace(t, nil)
	_, err := ws.OpenFile(filepath.Join(root, "src", "util.c"), false)
	require.NoError(t, err)

	newPath, err := ws.Rename(filepath.Join(root, "src"), "lib")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lib"), newPath)
	assert.NotNil(t, ws.Tabs().Find(filepath.Join(root, "lib", "util.c")))
	assert.Nil(t, ws.Tabs().Find(filepath.Join(root, "src", "util.c")))
}

func TestCreateAndDelete(t *testing.T) {
	ws, root := newWorkspace(t, nil)

	path, err := ws.Create(filepath.Join(root, "docs"), "notes.md", false)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = ws.OpenFile(path, false)
	require.NoError(t, err)
	require.NoError(t, ws.Delete(filepath.Join(root, "docs")))
	assert.NoDirExists(t, filepath.Join(root, "docs"))
	assert.Empty(t, ws.Tabs().Visible())
	assert.Equal(t, "", ws.Status().Text(status.Position))

	_, err = ws.Create(filepath.Join(t.TempDir()), "x.c", false)
	assert.True(t, errors.IsNotFound(err), "outside the project")
}

func TestTransfer(t *testing.T) {
	ws, root := newWorkspace(t, nil)

	report, err := ws.Transfer(filepath.Join(root, "main.c"), filepath.Join(root, "docs"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "docs", "main.c")}, report.Pasted)
	assert.FileExists(t, filepath.Join(root, "main.c"))

	_, err = ws.OpenFile(filepath.Join(root, "src", "util.h"), false)
	require.NoError(t, err)
	report, err = ws.Transfer(filepath.Join(root, "src"), filepath.Join(root, "docs"), true)
	require.NoError(t, err)
	assert.True(t, report.Moved)
	assert.NoDirExists(t, filepath.Join(root, "src"))
	assert.NotNil(t, ws.Tabs().Find(filepath.Join(root, "docs", "src", "util.h")), "open tab follows the move")
}

func TestApplyChange(t *testing.T) {
	ws, root := newWorkspace(t, nil)
	testutils.CreateTree(t, root, map[string]string{"src/gen/out.c": "x"})

	require.NoError(t, ws.ApplyChange(watch.Change{Dir: filepath.Join(root, "src", "gen")}))
	_, ok := ws.Tree().Lookup(filepath.Join(root, "src", "gen", "out.c"))
	assert.True(t, ok, "unknown directory refreshes its nearest known ancestor")

	require.NoError(t, os.Remove(filepath.Join(root, "main.c")))
	require.NoError(t, ws.ApplyChange(watch.Change{Dir: root}))
	_, ok = ws.Tree().Lookup(filepath.Join(root, "main.c"))
	assert.False(t, ok)

	assert.NoError(t, ws.ApplyChange(watch.Change{Dir: t.TempDir()}))
}

func TestWatcherKeepsTreeInSync(t *testing.T) {
	ws, root := newWorkspace(t, func(cfg *config.Config) {
		cfg.Watch.Enabled = true
		cfg.Watch.DebounceMS = 50
	})
	require.NotNil(t, ws.Changes())
	time.Sleep(100 * time.Millisecond)

	created := filepath.Join(root, "src", "new.c")
	require.NoError(t, os.WriteFile(created, []byte("x"), 0644))

	require.Eventually(t, func() bool {
		select {
		case change := <-ws.Changes():
			require.NoError(t, ws.ApplyChange(change))
		default:
		}
		_, ok := ws.Tree().Lookup(created)
		return ok
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCloseSavesConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.New()
	cfg.Watch.Enabled = false
	ws, err := workspace.New(cfg, workspace.WithConfigPath(cfgPath))
	require.NoError(t, err)
	root := testutils.CreateProject(t)
	require.NoError(t, ws.OpenProject(root))
	require.NoError(t, ws.Close())

	loaded, err := config.LoadConfigFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, root, loaded.Directories.LastProject)
}

func TestOneShotLeavesConfigAlone(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.New()
	cfg.Watch.Enabled = true
	ws, err := workspace.New(cfg, workspace.WithConfigPath(cfgPath), workspace.OneShot(1))
	require.NoError(t, err)
	root := testutils.CreateProject(t)
	require.NoError(t, ws.OpenProject(root))

	assert.Nil(t, ws.Changes(), "no watcher")
	assert.Empty(t, cfg.Directories.LastProject)
	assert.Empty(t, cfg.Directories.Recent)
	_, ok := ws.Tree().Lookup(filepath.Join(root, "src"))
	assert.True(t, ok)
	_, ok = ws.Tree().Lookup(filepath.Join(root, "src", "util.c"))
	assert.False(t, ok, "listed one level deep")

	path, err := ws.Create(root, "notes.txt", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "notes.txt"), path)

	require.NoError(t, ws.Close())
	assert.NoFileExists(t, cfgPath)
}
