package components

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"edshell/internal/explorer"
	"edshell/internal/tui/messages"
	"edshell/internal/tui/styles"
)

// FileTree displays the rows of a project tree and moves a cursor over them
type FileTree struct {
	tree *explorer.Tree
	rows []explorer.Row

	Cursor int
	Offset int // For scrolling
	Height int
	Width  int
}

// NewFileTree creates a file tree component over tree
func NewFileTree(tree *explorer.Tree) *FileTree {
	f := &FileTree{tree: tree, Height: 20, Width: 30}
	f.Sync()
	return f
}

// Sync re-reads the visible rows after the tree changed
func (f *FileTree) Sync() {
	var current explorer.NodeID = explorer.NoNode
	if f.Cursor < len(f.rows) {
		current = f.rows[f.Cursor].ID
	}
	f.rows = f.tree.Rows()
	for i, row := range f.rows {
		if row.ID == current {
			f.Cursor = i
			break
		}
	}
	if f.Cursor >= len(f.rows) {
		f.Cursor = max(0, len(f.rows)-1)
	}
	f.EnsureCursorVisible()
}

// Rows returns the rows currently shown
func (f *FileTree) Rows() []explorer.Row {
	return f.rows
}

// Current returns the node under the cursor
func (f *FileTree) Current() (explorer.NodeID, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.rows) {
		return explorer.NoNode, false
	}
	return f.rows[f.Cursor].ID, true
}

// CurrentDir returns the node under the cursor when it is a directory,
// otherwise its parent
func (f *FileTree) CurrentDir() (explorer.NodeID, bool) {
	id, ok := f.Current()
	if !ok {
		return explorer.NoNode, false
	}
	n, _ := f.tree.Node(id)
	if n.IsDir {
		return id, true
	}
	return n.Parent, n.Parent != explorer.NoNode
}

// Update handles navigation keys. Opening a file is reported as an
// OpenFileMsg.
func (f *FileTree) Update(msg tea.Msg) (*FileTree, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			f.MoveUp()
		case "down", "j":
			f.MoveDown()
		case "left", "h":
			// If folder is open, close it. Otherwise, go to parent.
			if id, ok := f.Current(); ok {
				if f.tree.IsExpanded(id) {
					f.tree.Collapse(id)
					f.Sync()
				} else {
					f.MoveToParent()
				}
			}
		case "right", "l", "enter", " ":
			id, ok := f.Current()
			if !ok {
				break
			}
			n, _ := f.tree.Node(id)
			if n.IsDir {
				f.tree.Toggle(id)
				f.Sync()
				break
			}
			path := f.tree.ResolvePath(id)
			preview := msg.String() == " "
			return f, func() tea.Msg { return messages.OpenFileMsg{Path: path, Preview: preview} }
		case "home", "g":
			f.Cursor = 0
			f.EnsureCursorVisible()
		case "end", "G":
			f.Cursor = max(0, len(f.rows)-1)
			f.EnsureCursorVisible()
		}

	case tea.WindowSizeMsg:
		f.EnsureCursorVisible()
	}
	return f, nil
}

// MoveUp moves the cursor up one row
func (f *FileTree) MoveUp() {
	if f.Cursor > 0 {
		f.Cursor--
	}
	f.EnsureCursorVisible()
}

// MoveDown moves the cursor down one row
func (f *FileTree) MoveDown() {
	if f.Cursor < len(f.rows)-1 {
		f.Cursor++
	}
	f.EnsureCursorVisible()
}

// MoveToParent moves the cursor to the parent of the current node
func (f *FileTree) MoveToParent() {
	id, ok := f.Current()
	if !ok {
		return
	}
	n, _ := f.tree.Node(id)
	f.moveTo(n.Parent)
}

// Reveal expands the ancestors of path and puts the cursor on it
func (f *FileTree) Reveal(path string) bool {
	id, ok := f.tree.ExpandPath(path)
	if !ok {
		return false
	}
	f.Sync()
	return f.moveTo(id)
}

func (f *FileTree) moveTo(id explorer.NodeID) bool {
	for i, row := range f.rows {
		if row.ID == id {
			f.Cursor = i
			f.EnsureCursorVisible()
			return true
		}
	}
	return false
}

// EnsureCursorVisible makes sure the cursor is visible by adjusting the scroll offset
func (f *FileTree) EnsureCursorVisible() {
	if f.Height <= 0 {
		return
	}
	if f.Cursor < f.Offset {
		f.Offset = f.Cursor
	}
	if f.Cursor >= f.Offset+f.Height {
		f.Offset = f.Cursor - f.Height + 1
	}
	maxOffset := max(0, len(f.rows)-f.Height)
	if f.Offset > maxOffset {
		f.Offset = maxOffset
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// View renders the rows in view. The row being renamed shows editView in
// place of its name.
func (f *FileTree) View(editView string) string {
	if len(f.rows) == 0 {
		return styles.Theme.Muted.Italic(true).Render("No folder open")
	}

	state, editing := f.tree.EditState()
	end := min(len(f.rows), f.Offset+f.Height)

	var b strings.Builder
	for i := f.Offset; i < end; i++ {
		row := f.rows[i]
		n, _ := f.tree.Node(row.ID)

		indent := ""
		if row.Depth > 0 {
			branch := "├─ "
			if f.lastChild(i) {
				branch = "└─ "
			}
			indent = strings.Repeat("  ", row.Depth-1) + branch
		}

		if state == explorer.Editing && row.ID == editing {
			b.WriteString(indent + editView + "\n")
			continue
		}

		line := runewidth.Truncate(indent+icon(n, f.tree.IsExpanded(row.ID))+n.Name, f.Width, "…")
		switch {
		case i == f.Cursor:
			line = styles.Theme.Cursor.Render(line)
		case n.IsSymlink:
			line = styles.Theme.Symlink.Render(line)
		case n.IsDir:
			line = styles.Theme.Directory.Render(line)
		default:
			line = styles.Theme.File.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if end < len(f.rows) {
		b.WriteString(styles.Theme.Muted.Render(fmt.Sprintf("(%d more items)", len(f.rows)-end)) + "\n")
	}
	return b.String()
}

// lastChild reports whether no later sibling follows row i
func (f *FileTree) lastChild(i int) bool {
	depth := f.rows[i].Depth
	for j := i + 1; j < len(f.rows); j++ {
		switch {
		case f.rows[j].Depth == depth:
			return false
		case f.rows[j].Depth < depth:
			return true
		}
	}
	return true
}

func icon(n explorer.Node, expanded bool) string {
	if n.IsDir {
		if expanded {
			return "📂 "
		}
		return "📁 "
	}
	switch strings.ToLower(filepath.Ext(n.Name)) {
	case ".c", ".h", ".cpp", ".hpp", ".go", ".js", ".py", ".rs":
		return "📝 "
	case ".md", ".txt":
		return "📄 "
	default:
		return "  "
	}
}
