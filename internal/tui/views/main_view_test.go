package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edshell/internal/tui/common"
	"edshell/pkg/testutils"
)

// Mock model for testing
type mockModel struct {
	focus    common.Focus
	project  string
	tabs     string
	tree     string
	editor   string
	prompt   string
	status   string
	showHelp bool
}

func (m *mockModel) Focus() common.Focus { return m.focus }
func (m *mockModel) ProjectName() string { return m.project }
func (m *mockModel) TabsView() string    { return m.tabs }
func (m *mockModel) TreeView() string    { return m.tree }
func (m *mockModel) EditorView() string  { return m.editor }
func (m *mockModel) PromptView() string  { return m.prompt }
func (m *mockModel) StatusView() string  { return m.status }
func (m *mockModel) ShowHelp() bool      { return m.showHelp }
func (m *mockModel) TreeWidth() int      { return 24 }

func TestRenderMainView(t *testing.T) {
	tests := []struct {
		name     string
		model    *mockModel
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name: "editor focused",
			model: &mockModel{
				focus:   common.FocusEditor,
				project: "proj",
				tabs:    "main.c ×",
				tree:    "📂 proj",
				editor:  "int main(void)",
				status:  "Ln 1, Col 1",
			},
			contains: []string{"proj", "main.c ×", "int main(void)", "Ln 1, Col 1"},
			excludes: []string{"Explorer:"},
		},
		{
			name: "prompt and help",
			model: &mockModel{
				focus:    common.FocusPrompt,
				project:  "proj",
				prompt:   "Find: ret",
				showHelp: true,
			},
			contains: []string{"Find: ret", "Explorer:", "ctrl+f find", "[ctrl+q] Quit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testutils.StripANSI(RenderMainView(tt.model))
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestRenderHelp(t *testing.T) {
	help := testutils.StripANSI(RenderHelp())
	for _, binding := range []string{"F2/r", "ctrl+s save", "ctrl+t reopen closed", "ctrl+up / ctrl+down zoom"} {
		assert.Contains(t, help, binding)
	}
}
