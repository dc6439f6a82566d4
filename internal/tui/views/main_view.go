package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"edshell/internal/tui/common"
	"edshell/internal/tui/styles"
)

// RenderMainView lays out the explorer on the left, the tab strip and
// editor on the right, and the prompt and status bar underneath
func RenderMainView(m common.ModelReader) string {
	treePane := styles.Theme.Pane
	editorPane := styles.Theme.Pane
	switch m.Focus() {
	case common.FocusTree:
		treePane = styles.Theme.FocusedPane
	case common.FocusEditor:
		editorPane = styles.Theme.FocusedPane
	}

	left := treePane.Width(m.TreeWidth()).Render(
		styles.Theme.Title.Render(m.ProjectName()) + "\n" + m.TreeView(),
	)
	right := editorPane.Render(m.TabsView() + "\n" + m.EditorView())

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	if prompt := m.PromptView(); prompt != "" {
		sb.WriteString("\n" + prompt)
	}
	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp())
	}
	sb.WriteString("\n" + m.StatusView())
	return styles.Theme.App.Render(sb.String())
}

func RenderKeyCommands() string {
	return styles.Theme.Help.Render(
		"[tab] Switch pane  [ctrl+s] Save  [ctrl+w] Close tab  [ctrl+f] Find  [?] Help  [ctrl+q] Quit",
	)
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`Explorer:
  ↑/k ↓/j   move            enter   open / expand     space  preview
  ←/h       collapse/parent  F2/r    rename            n / N  new file / folder
  d         delete           c / x   copy / cut        p      paste
  R         refresh
Editor:
  ctrl+s save  ctrl+e save as  ctrl+w close tab  ctrl+t reopen closed
  ctrl+n/ctrl+p next/previous tab  ctrl+f find  ctrl+r replace all
  ctrl+up / ctrl+down zoom`) + "\n" + RenderKeyCommands()
}
