package messages

import (
	"edshell/internal/watch"
)

type ErrorMsg struct {
	Err error
}

// OpenFileMsg asks for path to be opened in a tab
type OpenFileMsg struct {
	Path    string
	Preview bool
}

// DiskChangeMsg carries one watcher change to the update loop
type DiskChangeMsg struct {
	Change watch.Change
}

// WatcherClosedMsg is sent once the change channel is closed
type WatcherClosedMsg struct{}
