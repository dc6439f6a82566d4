// Package tui is the terminal front end: an explorer pane, a tab strip
// over a text editor, a one-line prompt and a status bar, all driven by a
// workspace.
package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"edshell/internal/buffer"
	"edshell/internal/explorer"
	"edshell/internal/log"
	"edshell/internal/status"
	"edshell/internal/tui/common"
	"edshell/internal/tui/components"
	"edshell/internal/tui/messages"
	"edshell/internal/tui/styles"
	"edshell/internal/tui/views"
	"edshell/internal/watch"
	"edshell/internal/workarea"
	"edshell/internal/workspace"
)

// Screen offsets of the tab strip: the app padding and both pane borders
// to the left, the pane border above.
const (
	stripLeftChrome = 4
	stripTop        = 1
	minTreeWidth    = 20
	chromeHeight    = 6
)

type Model struct {
	ws   *workspace.Workspace
	keys keyMap

	tree      *components.FileTree
	tabStrip  *components.TabStrip
	statusBar *components.StatusBar
	editor    textarea.Model
	input     textinput.Model

	focus      common.Focus
	lastFocus  common.Focus
	prompt     common.Prompt
	promptNode explorer.NodeID
	findQuery  string
	findOpts   buffer.FindOptions

	// shown is the tab whose text the editor holds
	shown       *workarea.Tab
	pendingQuit bool
	showHelp    bool
	width       int
	height      int
}

// New creates the model over ws. The project should already be open.
func New(ws *workspace.Workspace) *Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "Open a file from the explorer"

	ti := textinput.New()
	ti.CharLimit = 255

	m := &Model{
		ws:        ws,
		keys:      defaultKeys(),
		tree:      components.NewFileTree(ws.Tree()),
		tabStrip:  components.NewTabStrip(ws.Tabs()),
		statusBar: components.NewStatusBar(ws.Status()),
		editor:    ta,
		input:     ti,
		focus:     common.FocusTree,
		width:     80,
		height:    24,
	}
	m.resize()
	m.syncEditor()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return waitForChange(m.ws.Changes())
}

// waitForChange blocks on the watcher channel and turns the next change
// into a message
func waitForChange(changes <-chan watch.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return messages.WatcherClosedMsg{}
		}
		return messages.DiskChangeMsg{Change: change}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case messages.DiskChangeMsg:
		if err := m.ws.ApplyChange(msg.Change); err != nil {
			log.LogWithError(err).Warn("refresh after disk change failed")
		}
		m.tree.Sync()
		return m, waitForChange(m.ws.Changes())

	case messages.WatcherClosedMsg:
		return m, nil

	case messages.OpenFileMsg:
		if _, err := m.ws.OpenFile(msg.Path, msg.Preview); err != nil {
			return m, nil
		}
		m.syncEditor()
		if !msg.Preview {
			m.setFocus(common.FocusEditor)
		}
		return m, nil

	case messages.ErrorMsg:
		m.ws.Status().SetMessage(msg.Err.Error(), status.Message)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.focus == common.FocusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	tab, onClose := m.ws.Tabs().TabAt(msg.X-m.TreeWidth()-stripLeftChrome, msg.Y-stripTop)
	if tab == nil {
		return nil
	}
	m.commitEditor()
	if onClose {
		m.ws.Tabs().Close(tab)
	} else {
		m.ws.Tabs().Select(tab)
	}
	m.syncEditor()
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == common.FocusPrompt {
		return m, m.handlePromptKey(msg)
	}

	if !key.Matches(msg, m.keys.Quit) {
		m.pendingQuit = false
	}
	tabs := m.ws.Tabs()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if unsaved := tabs.Unsaved(); len(unsaved) > 0 && !m.pendingQuit {
			m.pendingQuit = true
			m.ws.Status().SetMessage(fmt.Sprintf("%d unsaved tab(s). Press %s again to quit", len(unsaved), m.keys.Quit.Help().Key), status.Message)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchPane):
		m.commitEditor()
		if m.focus == common.FocusTree && tabs.Selected() != nil {
			m.setFocus(common.FocusEditor)
		} else {
			m.setFocus(common.FocusTree)
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.commitEditor()
		if tab := tabs.Selected(); tab != nil && tab.IsScratch() {
			m.openPrompt(common.PromptSaveAs, "")
			return m, nil
		}
		m.report(tabs.SaveSelected(), "Saved")
		return m, nil

	case key.Matches(msg, m.keys.SaveAs):
		m.commitEditor()
		if tab := tabs.Selected(); tab != nil {
			m.openPrompt(common.PromptSaveAs, tab.Path())
		}
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		m.commitEditor()
		tabs.CloseSelected()
		m.syncEditor()
		if tabs.Selected() == nil {
			m.setFocus(common.FocusTree)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reopen):
		m.reopenLast()
		return m, nil

	case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
		m.commitEditor()
		delta := 1
		if key.Matches(msg, m.keys.PrevTab) {
			delta = -1
		}
		tabs.SelectNext(delta)
		m.syncEditor()
		return m, nil

	case key.Matches(msg, m.keys.Pin):
		if tab := tabs.Selected(); tab != nil {
			tabs.Pin(tab)
		}
		return m, nil

	case key.Matches(msg, m.keys.Scratch):
		m.commitEditor()
		tabs.NewScratch()
		m.syncEditor()
		m.setFocus(common.FocusEditor)
		return m, nil

	case key.Matches(msg, m.keys.Find):
		if tabs.Selected() != nil {
			m.commitEditor()
			m.openPrompt(common.PromptFind, m.findQuery)
		}
		return m, nil

	case key.Matches(msg, m.keys.FindNext), key.Matches(msg, m.keys.FindPrev):
		m.commitEditor()
		opts := m.findOpts
		opts.Backward = key.Matches(msg, m.keys.FindPrev)
		m.find(opts)
		return m, nil

	case key.Matches(msg, m.keys.Replace):
		if tabs.Selected() == nil {
			return m, nil
		}
		m.commitEditor()
		if m.findQuery == "" {
			m.ws.Status().SetMessage("Find something first", status.Message)
			return m, nil
		}
		m.openPrompt(common.PromptReplace, "")
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn), key.Matches(msg, m.keys.ZoomOut):
		if tab := tabs.Selected(); tab != nil {
			if key.Matches(msg, m.keys.ZoomIn) {
				tab.Buffer().ZoomIn()
			} else {
				tab.Buffer().ZoomOut()
			}
			tabs.RefreshStatus()
		}
		return m, nil
	}

	if m.focus == common.FocusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.commitEditor()
		return m, cmd
	}
	return m, m.handleTreeKey(msg)
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	tree := m.ws.Tree()
	current, ok := m.tree.Current()

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Rename):
		if !ok {
			break
		}
		if err := tree.BeginEdit(current); err != nil {
			m.report(err, "")
			break
		}
		n, _ := tree.Node(current)
		m.promptNode = current
		m.openPrompt(common.PromptRename, n.Name)

	case key.Matches(msg, m.keys.NewFile), key.Matches(msg, m.keys.NewDir):
		dir, ok := m.tree.CurrentDir()
		if !ok {
			break
		}
		m.promptNode = dir
		if key.Matches(msg, m.keys.NewDir) {
			m.openPrompt(common.PromptNewDir, "")
		} else {
			m.openPrompt(common.PromptNewFile, "")
		}

	case key.Matches(msg, m.keys.Delete):
		if !ok {
			break
		}
		n, _ := tree.Node(current)
		m.promptNode = current
		m.openPrompt(common.PromptConfirmDelete, "")
		m.input.Placeholder = n.Name

	case key.Matches(msg, m.keys.Copy), key.Matches(msg, m.keys.Cut):
		if !ok {
			break
		}
		path := tree.ResolvePath(current)
		var err error
		if key.Matches(msg, m.keys.Cut) {
			err = m.ws.Clipboard().Cut(path)
		} else {
			err = m.ws.Clipboard().Copy(path)
		}
		m.report(err, "")

	case key.Matches(msg, m.keys.Paste):
		dir, ok := m.tree.CurrentDir()
		if !ok {
			break
		}
		report, err := m.ws.Clipboard().Paste(dir)
		for path, failure := range report.Failed {
			m.ws.Output().Appendf("paste %s: %v", path, failure)
		}
		if err != nil {
			log.LogWithError(err).Warn("paste failed")
		}
		m.tree.Sync()
		if len(report.Pasted) > 0 {
			m.tree.Reveal(report.Pasted[0])
		}
		m.syncEditor()

	case key.Matches(msg, m.keys.Refresh):
		if dir, ok := m.tree.CurrentDir(); ok {
			m.report(tree.Refresh(dir), "Refreshed")
			m.tree.Sync()
		}

	default:
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.prompt == common.PromptRename {
			m.ws.Tree().CancelEdit()
		}
		m.closePrompt()
		return nil

	case m.prompt == common.PromptConfirmDelete:
		confirm := msg.String() == "y" || msg.String() == "Y"
		m.closePrompt()
		if confirm {
			m.submitPrompt(common.PromptConfirmDelete, "y")
		}
		return nil

	case key.Matches(msg, m.keys.Submit):
		prompt, value := m.prompt, m.input.Value()
		m.closePrompt()
		m.submitPrompt(prompt, value)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) submitPrompt(prompt common.Prompt, value string) {
	tree := m.ws.Tree()
	tabs := m.ws.Tabs()

	switch prompt {
	case common.PromptRename:
		m.report(tree.CommitEdit(value), "")
		m.tree.Sync()
		m.syncEditor()

	case common.PromptNewFile, common.PromptNewDir:
		isDir := prompt == common.PromptNewDir
		tree.Expand(m.promptNode)
		if _, err := tree.CreateChild(m.promptNode, value, isDir); err != nil {
			m.report(err, "")
			return
		}
		path := filepath.Join(tree.ResolvePath(m.promptNode), value)
		m.tree.Sync()
		m.tree.Reveal(path)
		if !isDir {
			if _, err := m.ws.OpenFile(path, false); err == nil {
				m.syncEditor()
				m.setFocus(common.FocusEditor)
			}
		}

	case common.PromptConfirmDelete:
		m.report(tree.Delete(m.promptNode), "Deleted")
		m.tree.Sync()
		m.syncEditor()

	case common.PromptFind:
		m.findQuery = value
		m.find(m.findOpts)

	case common.PromptReplace:
		tab := tabs.Selected()
		if tab == nil {
			return
		}
		n := tab.Buffer().ReplaceAll(m.findQuery, value, m.findOpts)
		m.ws.Status().SetMessage(fmt.Sprintf("Replaced %d occurrence(s)", n), status.Message)
		m.shown = nil
		m.syncEditor()
		tabs.Relayout()

	case common.PromptSaveAs:
		tab := tabs.Selected()
		if tab == nil || value == "" {
			return
		}
		path := value
		if !filepath.IsAbs(path) {
			path = filepath.Join(tree.RootPath(), path)
		}
		if err := tabs.SaveAs(tab, path); err != nil {
			m.report(err, "")
			return
		}
		m.ws.Status().SetMessage("Saved "+tab.Name(), status.Message)
		if err := m.ws.ApplyChange(watch.Change{Dir: filepath.Dir(path)}); err == nil {
			m.tree.Sync()
		}
	}
}

// find searches the selected tab and moves the editor caret to the match
func (m *Model) find(opts buffer.FindOptions) {
	tab := m.ws.Tabs().Selected()
	if tab == nil || m.findQuery == "" {
		return
	}
	if !tab.Buffer().Find(m.findQuery, opts) {
		m.ws.Status().SetMessage(fmt.Sprintf("%q not found", m.findQuery), status.Message)
		return
	}
	m.placeCaret(tab.Buffer())
	m.ws.Tabs().RefreshStatus()
	m.setFocus(common.FocusEditor)
}

// reopenLast brings back the most recently closed file tab
func (m *Model) reopenLast() {
	hidden := m.ws.Tabs().Hidden()
	for i := len(hidden) - 1; i >= 0; i-- {
		if path := hidden[i].Path(); path != "" {
			m.commitEditor()
			if _, err := m.ws.OpenFile(path, false); err == nil {
				m.syncEditor()
				m.setFocus(common.FocusEditor)
			}
			return
		}
	}
	m.ws.Status().SetMessage("No closed tabs", status.Message)
}

// report shows err in the status bar, or ok when there is no error and ok
// is not empty
func (m *Model) report(err error, ok string) {
	switch {
	case err != nil:
		m.ws.Status().SetMessage(err.Error(), status.Message)
		m.ws.Output().Appendf("error: %v", err)
	case ok != "":
		m.ws.Status().SetMessage(ok, status.Message)
	}
}

// syncEditor loads the selected tab into the editor when it changed
func (m *Model) syncEditor() {
	tab := m.ws.Tabs().Selected()
	if tab == m.shown {
		return
	}
	m.shown = tab
	if tab == nil {
		m.editor.Reset()
		return
	}
	m.editor.SetValue(tab.Buffer().Text())
	m.placeCaret(tab.Buffer())
}

// placeCaret moves the editor cursor to the buffer caret
func (m *Model) placeCaret(buf *buffer.Buffer) {
	line, col := buf.LineCol()
	for m.editor.Line() < line-1 {
		before := m.editor.Line()
		m.editor.CursorDown()
		if m.editor.Line() == before {
			break
		}
	}
	for m.editor.Line() > line-1 {
		before := m.editor.Line()
		m.editor.CursorUp()
		if m.editor.Line() == before {
			break
		}
	}
	m.editor.SetCursor(col - 1)
}

// commitEditor copies the editor text and caret into the shown tab
func (m *Model) commitEditor() {
	tab := m.shown
	if tab == nil || tab != m.ws.Tabs().Selected() {
		return
	}
	buf := tab.Buffer()
	dirty := buf.HasPendingEdits()
	if value := m.editor.Value(); value != buf.Text() {
		buf.SetText(value)
	}
	// An edited preview is no longer replaceable
	if tab.IsTemporary() && buf.HasPendingEdits() {
		m.ws.Tabs().Pin(tab)
	}
	info := m.editor.LineInfo()
	buf.SetLineCol(m.editor.Line()+1, info.StartColumn+info.ColumnOffset+1)
	m.ws.Tabs().RefreshStatus()
	if dirty != buf.HasPendingEdits() {
		m.ws.Tabs().Relayout()
	}
}

func (m *Model) openPrompt(p common.Prompt, value string) {
	m.lastFocus = m.focus
	m.prompt = p
	m.input.Reset()
	m.input.Placeholder = ""
	m.input.Prompt = p.Title() + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.editor.Blur()
	m.focus = common.FocusPrompt
}

func (m *Model) closePrompt() {
	m.prompt = common.NoPrompt
	m.input.Blur()
	m.setFocus(m.lastFocus)
}

func (m *Model) setFocus(f common.Focus) {
	m.focus = f
	if f == common.FocusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
}

func (m *Model) resize() {
	treeWidth := m.TreeWidth()
	editorWidth := max(10, m.width-treeWidth-stripLeftChrome-3)
	bodyHeight := max(3, m.height-chromeHeight)

	m.tree.Width = treeWidth
	m.tree.Height = bodyHeight
	m.tree.EnsureCursorVisible()
	m.tabStrip.Width = editorWidth
	m.statusBar.Width = max(10, m.width-2)
	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(bodyHeight - 1)
	m.input.Width = max(10, m.width-20)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Getters

func (m *Model) Focus() common.Focus {
	return m.focus
}

// Prompt returns what the prompt line is collecting
func (m *Model) Prompt() common.Prompt {
	return m.prompt
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) TreeWidth() int {
	return max(minTreeWidth, m.width/4)
}

// EditorText returns the text the editor currently holds
func (m *Model) EditorText() string {
	return m.editor.Value()
}

func (m *Model) ProjectName() string {
	root := m.ws.Tree().RootPath()
	if root == "" {
		return "EXPLORER"
	}
	return filepath.Base(root)
}

func (m *Model) TabsView() string {
	return m.tabStrip.View()
}

func (m *Model) TreeView() string {
	return m.tree.View(m.input.View())
}

func (m *Model) EditorView() string {
	if m.ws.Tabs().Selected() == nil {
		return styles.Theme.Muted.Italic(true).Render("No file selected")
	}
	return m.editor.View()
}

func (m *Model) PromptView() string {
	if m.prompt == common.NoPrompt || m.prompt == common.PromptRename {
		return ""
	}
	return m.input.View()
}

func (m *Model) StatusView() string {
	return m.statusBar.View()
}
