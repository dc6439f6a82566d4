package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"edshell/internal/tui/styles"
	"edshell/internal/workarea"
)

// closeGlyph fills the close button allowance of a tab
const closeGlyph = " ×"

// TabStrip renders the visible tabs of a registry at the positions its
// layout assigns them
type TabStrip struct {
	tabs  *workarea.Registry
	Width int
}

func NewTabStrip(tabs *workarea.Registry) *TabStrip {
	return &TabStrip{tabs: tabs, Width: 80}
}

func (s *TabStrip) View() string {
	visible := s.tabs.Visible()
	if len(visible) == 0 {
		return styles.Theme.Muted.Render("no open files")
	}

	var b strings.Builder
	col := 0
	for i, rect := range s.tabs.Layout() {
		tab := visible[i]
		if rect.X+rect.Width > s.Width {
			b.WriteString(styles.Theme.Muted.Render("…"))
			break
		}
		if rect.X > col {
			b.WriteString(strings.Repeat(" ", rect.X-col))
		}

		label := tab.DisplayName()
		if tab.CloseButtonShown() {
			label += closeGlyph
		}
		label = runewidth.FillRight(runewidth.Truncate(label, rect.Width, "…"), rect.Width)

		switch {
		case tab.IsSelected():
			label = styles.Theme.TabActive.Render(label)
		case tab.IsTemporary():
			label = styles.Theme.TabPreview.Render(label)
		default:
			label = styles.Theme.TabInactive.Render(label)
		}
		b.WriteString(label)
		col = rect.X + rect.Width
	}
	return b.String()
}

// truncate shortens s to at most width cells
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
