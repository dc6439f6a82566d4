package clipboard

import (
	"net/url"
	"path/filepath"
	"strings"

	sysclip "github.com/atotto/clipboard"

	"edshell/internal/errors"
)

// Transport carries the file list between a copy or cut and the paste
type Transport interface {
	// Publish replaces the shared clipboard with paths
	Publish(paths []string) error

	// Files returns the file list currently on the clipboard. A clipboard
	// holding anything else yields an empty list.
	Files() ([]string, error)
}

// MemoryTransport keeps the file list in process
type MemoryTransport struct {
	paths []string
}

// NewMemoryTransport creates an empty in-process clipboard
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

func (m *MemoryTransport) Publish(paths []string) error {
	m.paths = append([]string(nil), paths...)
	return nil
}

func (m *MemoryTransport) Files() ([]string, error) {
	return append([]string(nil), m.paths...), nil
}

// SystemTransport shares the file list through the desktop clipboard as a
// text/uri-list payload, one file:// URI per line.
type SystemTransport struct{}

func (SystemTransport) Publish(paths []string) error {
	if sysclip.Unsupported {
		return errors.NewFileError("system clipboard unavailable", "", errors.InvalidOperation, nil)
	}
	if err := sysclip.WriteAll(encodeURIList(paths)); err != nil {
		return errors.NewFileError("publish to clipboard failed", "", errors.IOError, err)
	}
	return nil
}

func (SystemTransport) Files() ([]string, error) {
	if sysclip.Unsupported {
		return nil, nil
	}
	text, err := sysclip.ReadAll()
	if err != nil {
		return nil, errors.NewFileError("read clipboard failed", "", errors.IOError, err)
	}
	return decodeURIList(text), nil
}

func encodeURIList(paths []string) string {
	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
		lines = append(lines, u.String())
	}
	return strings.Join(lines, "\r\n")
}

// decodeURIList keeps only file:// lines. Comment lines start with '#'.
func decodeURIList(text string) []string {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme != "file" || u.Path == "" {
			continue
		}
		paths = append(paths, filepath.FromSlash(u.Path))
	}
	return paths
}
