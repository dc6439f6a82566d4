package fsops

// Entry is one directory entry as reported by ListEntries
type Entry struct {
	Name      string
	IsDir     bool
	IsSymlink bool
	Size      int64
}

// Gateway is the filesystem boundary used by the explorer, the tab registry
// and the clipboard. Every failure comes back as an *errors.FileError whose
// kind is one of NotFound, AccessDenied, AlreadyExists, InvalidOperation or
// IOError.
type Gateway interface {
	// Exists reports whether anything lives at path
	Exists(path string) bool

	// IsDirectory reports whether path is an existing directory
	IsDirectory(path string) bool

	// Stat describes a single path
	Stat(path string) (Entry, error)

	// ListEntries returns the entries of dirPath in enumeration order
	ListEntries(dirPath string) ([]Entry, error)

	// CreateFile creates an empty file, failing if path already exists
	CreateFile(path string) error

	// CreateDirectory creates a single directory, failing if path already exists
	CreateDirectory(path string) error

	// Rename moves oldPath to newPath, failing if newPath already exists
	Rename(oldPath, newPath string) error

	// Delete removes a file, or a directory with everything beneath it
	Delete(path string) error

	// CopyFile copies a regular file, failing if dst already exists
	CopyFile(src, dst string) error

	// CopyDirectoryRecursive copies the tree at src to dst. It keeps going
	// past individual failures and reports them together at the end.
	CopyDirectoryRecursive(src, dst string) error

	// ReadFile returns the content of a file
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of a file, creating it if needed
	WriteFile(path string, data []byte) error
}

// Ensure OS implements the Gateway interface
var _ Gateway = (*OS)(nil)
