package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"edshell/internal/status"
	"edshell/internal/tui/styles"
)

// StatusBar renders the channels of a status.Bar on one line: the message
// on the left, position, zoom and encoding on the right.
type StatusBar struct {
	bar   *status.Bar
	Width int
}

func NewStatusBar(bar *status.Bar) *StatusBar {
	return &StatusBar{bar: bar, Width: 80}
}

func (s *StatusBar) View() string {
	var right []string
	for _, ch := range []status.Channel{status.Position, status.Zoom, status.Encoding} {
		if text := strings.TrimSpace(s.bar.Text(ch)); text != "" {
			right = append(right, text)
		}
	}
	rightText := strings.Join(right, "  ")

	left := s.bar.Text(status.Message)
	room := s.Width - lipgloss.Width(rightText) - 2
	if room < 0 {
		room = 0
	}
	if lipgloss.Width(left) > room {
		left = truncate(left, room)
	}
	gap := strings.Repeat(" ", max(1, s.Width-lipgloss.Width(left)-lipgloss.Width(rightText)))
	return styles.Theme.Status.Width(s.Width).Render(left + gap + rightText)
}
