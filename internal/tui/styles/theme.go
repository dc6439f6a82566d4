package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App         lipgloss.Style
	Title       lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabPreview  lipgloss.Style
	Cursor      lipgloss.Style
	Directory   lipgloss.Style
	File        lipgloss.Style
	Symlink     lipgloss.Style
	Muted       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(0, 1),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#4F4FB7")).
		Padding(0, 1),
	Pane: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")),
	FocusedPane: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B61FF")),
	TabActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#6B5ECD")).
		Bold(true),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
	TabPreview: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")).
		Italic(true),
	Cursor: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#6B5ECD")).
		Bold(true),
	Directory: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#81A1C1")).
		Bold(true),
	File: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D8DEE9")),
	Symlink: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D08770")).
		Italic(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D8DEE9")).
		Background(lipgloss.Color("#3B3B5C")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F5F")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
}
