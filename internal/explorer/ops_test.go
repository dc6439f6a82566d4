package explorer_test

import (
	"os"
	"testing"

	"edshell/internal/errors"
	"edshell/internal/explorer"
	"edshell/internal/status"
	"edshell/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRename(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")

		require.NoError(t, f.tree.Rename(id, "app.c"))
		n, _ := f.tree.Node(id)
		assert.Equal(t, "app.c", n.Name)
		assert.FileExists(t, f.path("app.c"))
		assert.NoFileExists(t, f.path("main.c"))
		assert.Equal(t, []call{{"rename", f.path("main.c"), f.path("app.c"), false}}, f.tabs.calls)
		assert.Equal(t, "Renamed main.c to app.c", f.bar.Text(status.Message))
	})

	t.Run("directory", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		require.NoError(t, f.tree.Rename(f.node(t, "src"), "lib"))
		assert.Equal(t, []call{{"rename", f.path("src"), f.path("lib"), true}}, f.tabs.calls)
		assert.Equal(t, []string{"docs/", "lib/", "lib/util.c", "lib/util.h", "main.c"}, listing(f.tree))
	})

	t.Run("invalid names", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")
		for _, name := range []string{"", "a/b.c", `a\b`, "a:b", "a*", "a?", `a"b`, "<a>", "a|b", ".", ".."} {
			err := f.tree.Rename(id, name)
			assert.True(t, errors.IsInvalidName(err), "name %q", name)
		}
		n, _ := f.tree.Node(id)
		assert.Equal(t, "main.c", n.Name)
		assert.Empty(t, f.tabs.calls)
	})

	t.Run("target exists", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		err := f.tree.Rename(f.node(t, "main.c"), "docs")
		assert.True(t, errors.IsAlreadyExists(err))
		assert.FileExists(t, f.path("main.c"))
		assert.Empty(t, f.tabs.calls)
		assert.NotEmpty(t, f.bar.Text(status.Message))
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		assert.NoError(t, f.tree.Rename(f.node(t, "main.c"), "main.c"))
		assert.Empty(t, f.tabs.calls)
	})

	t.Run("to a hidden name", func(t *testing.T) {
		f := newFixture(t, explorer.Options{Ignore: []string{"*.bak"}})
		require.NoError(t, f.tree.Rename(f.node(t, "main.c"), ".main.c"))
		require.NoError(t, f.tree.Rename(f.node(t, "src"), "src.bak"))
		assert.FileExists(t, f.path(".main.c"))
		assert.DirExists(t, f.path("src.bak"))
		assert.Equal(t, []string{"docs/"}, listing(f.tree))
		assert.Len(t, f.tabs.calls, 2, "tabs still follow the rename")

		require.NoError(t, f.tree.Refresh(f.tree.Root()))
		assert.Equal(t, []string{"docs/"}, listing(f.tree))
	})

	t.Run("vanished on disk", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		require.NoError(t, os.Remove(f.path("main.c")))
		err := f.tree.Rename(f.node(t, "main.c"), "x.c")
		assert.True(t, errors.IsNotFound(err))
		_, ok := f.tree.Lookup(f.path("main.c"))
		assert.True(t, ok, "node untouched on failure")
	})
}

func TestDelete(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		require.NoError(t, f.tree.Delete(f.node(t, "main.c")))
		assert.NoFileExists(t, f.path("main.c"))
		_, ok := f.tree.Lookup(f.path("main.c"))
		assert.False(t, ok)
		assert.Equal(t, []call{{"delete", f.path("main.c"), "", false}}, f.tabs.calls)
	})

	t.Run("directory closes descendant tabs first", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		testutils.CreateTree(t, f.root, map[string]string{"src/.hidden": "h"})
		require.NoError(t, f.tree.OpenRoot(f.root))
		before := f.tree.Len()

		require.NoError(t, f.tree.Delete(f.node(t, "src")))
		assert.NoDirExists(t, f.path("src"))
		assert.Equal(t, before-3, f.tree.Len())
		assert.Equal(t, []call{
			{"delete", f.path("src/util.c"), "", false},
			{"delete", f.path("src/util.h"), "", false},
			{"delete", f.path("src"), "", true},
		}, f.tabs.calls)
	})

	t.Run("root", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		err := f.tree.Delete(f.tree.Root())
		assert.True(t, errors.IsInvalidOperation(err))
		assert.DirExists(t, f.root)
	})

	t.Run("failure keeps node", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")
		require.NoError(t, os.Remove(f.path("main.c")))
		assert.True(t, errors.IsNotFound(f.tree.Delete(id)))
		_, ok := f.tree.Node(id)
		assert.True(t, ok)
		assert.Empty(t, f.tabs.calls)
	})

	t.Run("stale id", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")
		require.NoError(t, f.tree.Delete(id))
		assert.True(t, errors.IsNotFound(f.tree.Delete(id)))
	})
}

func TestCreateChild(t *testing.T) {
	t.Run("file and directory", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		root := f.tree.Root()

		file, err := f.tree.CreateChild(root, "lib.c", false)
		require.NoError(t, err)
		assert.FileExists(t, f.path("lib.c"))
		assert.Equal(t, f.path("lib.c"), f.tree.ResolvePath(file))

		dir, err := f.tree.CreateChild(root, "include", true)
		require.NoError(t, err)
		assert.DirExists(t, f.path("include"))
		n, _ := f.tree.Node(dir)
		assert.True(t, n.IsDir)

		assert.Equal(t, []string{"docs/", "include/", "lib.c", "main.c", "src/", "src/util.c", "src/util.h"}, listing(f.tree))
	})

	t.Run("invalid name creates nothing", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		before := testutils.ListTree(t, f.root)
		nodes := f.tree.Len()

		_, err := f.tree.CreateChild(f.tree.Root(), "a/b.c", false)
		assert.True(t, errors.IsInvalidName(err))
		assert.Equal(t, before, testutils.ListTree(t, f.root))
		assert.Equal(t, nodes, f.tree.Len())
	})

	t.Run("already exists", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		_, err := f.tree.CreateChild(f.tree.Root(), "main.c", false)
		assert.True(t, errors.IsAlreadyExists(err))

		// Present on disk but hidden from the tree
		testutils.CreateTree(t, f.root, map[string]string{".env": "x"})
		_, err = f.tree.CreateChild(f.tree.Root(), ".env", false)
		assert.True(t, errors.IsAlreadyExists(err))
	})

	t.Run("hidden name", func(t *testing.T) {
		f := newFixture(t, explorer.Options{Ignore: []string{"build"}})
		nodes := f.tree.Len()

		id, err := f.tree.CreateChild(f.tree.Root(), ".env", false)
		require.NoError(t, err)
		assert.Equal(t, explorer.NoNode, id)
		assert.FileExists(t, f.path(".env"))

		id, err = f.tree.CreateChild(f.tree.Root(), "build", true)
		require.NoError(t, err)
		assert.Equal(t, explorer.NoNode, id)
		assert.DirExists(t, f.path("build"))

		assert.Equal(t, nodes, f.tree.Len())
		assert.Contains(t, f.bar.Text(status.Message), "hidden")
		require.NoError(t, f.tree.Refresh(f.tree.Root()))
		assert.Equal(t, nodes, f.tree.Len())
	})

	t.Run("parent is a file", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		_, err := f.tree.CreateChild(f.node(t, "main.c"), "x.c", false)
		assert.True(t, errors.IsInvalidOperation(err))
	})
}

func TestInsertAndRemove(t *testing.T) {
	f := newFixture(t, explorer.Options{})
	testutils.CreateTree(t, f.root, map[string]string{
		"docs/guide/intro.md": "# intro",
	})

	docs := f.node(t, "docs")
	id, err := f.tree.InsertChild(docs, "guide", true)
	require.NoError(t, err)
	assert.Len(t, f.tree.Children(id), 1)

	again, err := f.tree.InsertChild(docs, "guide", true)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	f.tree.Remove(id)
	_, ok := f.tree.Lookup(f.path("docs/guide/intro.md"))
	assert.False(t, ok)
	assert.DirExists(t, f.path("docs/guide"), "Remove leaves the disk alone")

	f.tree.Remove(f.tree.Root())
	assert.NotEqual(t, explorer.NoNode, f.tree.Root())
}

func TestEditInPlace(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")

		require.NoError(t, f.tree.BeginEdit(id))
		state, node := f.tree.EditState()
		assert.Equal(t, explorer.Editing, state)
		assert.Equal(t, id, node)

		require.NoError(t, f.tree.CommitEdit("entry.c"))
		state, _ = f.tree.EditState()
		assert.Equal(t, explorer.Idle, state)
		assert.FileExists(t, f.path("entry.c"))
	})

	t.Run("failed commit returns to idle with original name", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")

		require.NoError(t, f.tree.BeginEdit(id))
		err := f.tree.CommitEdit("bad|name")
		assert.True(t, errors.IsInvalidName(err))

		state, _ := f.tree.EditState()
		assert.Equal(t, explorer.Idle, state)
		n, _ := f.tree.Node(id)
		assert.Equal(t, "main.c", n.Name)
		assert.Contains(t, f.bar.Text(status.Message), "reserved character")
	})

	t.Run("cancel", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		id := f.node(t, "main.c")
		require.NoError(t, f.tree.BeginEdit(id))
		f.tree.CancelEdit()

		state, node := f.tree.EditState()
		assert.Equal(t, explorer.Idle, state)
		assert.Equal(t, explorer.NoNode, node)
		assert.FileExists(t, f.path("main.c"))
	})

	t.Run("commit without edit", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		assert.True(t, errors.IsInvalidOperation(f.tree.CommitEdit("x")))
	})

	t.Run("deleting the edited node ends the edit", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		require.NoError(t, f.tree.BeginEdit(f.node(t, "src/util.c")))
		require.NoError(t, f.tree.Delete(f.node(t, "src")))
		state, _ := f.tree.EditState()
		assert.Equal(t, explorer.Idle, state)
	})

	t.Run("unknown node", func(t *testing.T) {
		f := newFixture(t, explorer.Options{})
		assert.True(t, errors.IsNotFound(f.tree.BeginEdit(explorer.NodeID(500))))
	})
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, explorer.ValidateName("main.c"))
	assert.NoError(t, explorer.ValidateName(".gitignore"))
	assert.NoError(t, explorer.ValidateName("my file.txt"))
	assert.True(t, errors.IsInvalidName(explorer.ValidateName("   ")))
	assert.True(t, errors.IsInvalidName(explorer.ValidateName("tab\there")))
}
