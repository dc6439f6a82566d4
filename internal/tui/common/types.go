package common

// Focus is the pane receiving key input
type Focus int

const (
	FocusTree Focus = iota
	FocusEditor
	FocusPrompt
)

func (f Focus) String() string {
	switch f {
	case FocusEditor:
		return "editor"
	case FocusPrompt:
		return "prompt"
	default:
		return "tree"
	}
}

// Prompt is what the one-line input at the bottom is collecting
type Prompt int

const (
	NoPrompt Prompt = iota
	PromptRename
	PromptNewFile
	PromptNewDir
	PromptConfirmDelete
	PromptFind
	PromptReplace
	PromptSaveAs
)

// Title is shown in front of the input
func (p Prompt) Title() string {
	switch p {
	case PromptRename:
		return "Rename to"
	case PromptNewFile:
		return "New file"
	case PromptNewDir:
		return "New folder"
	case PromptConfirmDelete:
		return "Delete? (y/n)"
	case PromptFind:
		return "Find"
	case PromptReplace:
		return "Replace with"
	case PromptSaveAs:
		return "Save as"
	default:
		return ""
	}
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Focus() Focus
	ProjectName() string
	TabsView() string
	TreeView() string
	EditorView() string
	PromptView() string
	StatusView() string
	ShowHelp() bool
	TreeWidth() int
}
