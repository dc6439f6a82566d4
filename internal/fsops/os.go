// Package fsops is the synchronous filesystem gateway. All operations block
// the caller for their duration.
package fsops

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"edshell/internal/errors"
	"edshell/internal/log"
	"edshell/pkg/pathutil"
)

// OS is a Gateway backed by the local filesystem
type OS struct{}

// New creates a local filesystem gateway
func New() *OS {
	return &OS{}
}

func (g *OS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (g *OS) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (g *OS) Stat(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, errors.FromOS("stat", path, err)
	}
	return entryFromInfo(path, info), nil
}

func entryFromInfo(path string, info os.FileInfo) Entry {
	e := Entry{
		Name:  info.Name(),
		IsDir: info.IsDir(),
		Size:  info.Size(),
	}
	if info.Mode()&os.ModeSymlink != 0 {
		e.IsSymlink = true
		// A link counts as a directory when its target is one; callers
		// decide whether to descend.
		if target, err := os.Stat(path); err == nil {
			e.IsDir = target.IsDir()
		}
	}
	return e
}

func (g *OS) ListEntries(dirPath string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, errors.FromOS("list directory", dirPath, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		full := filepath.Join(dirPath, de.Name())
		info, err := de.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info
			log.Debug("skipping %s: %v", full, err)
			continue
		}
		entries = append(entries, entryFromInfo(full, info))
	}
	return entries, nil
}

func (g *OS) CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.FromOS("create file", path, err)
	}
	return errors.FromOS("create file", path, f.Close())
}

func (g *OS) CreateDirectory(path string) error {
	return errors.FromOS("create directory", path, os.Mkdir(path, 0755))
}

func (g *OS) Rename(oldPath, newPath string) error {
	oldInfo, err := os.Lstat(oldPath)
	if err != nil {
		return errors.FromOS("rename", oldPath, err)
	}
	// os.Rename silently replaces files on most platforms. A case-only
	// rename on a case-insensitive volume reports the same file twice.
	if newInfo, err := os.Lstat(newPath); err == nil && !os.SameFile(oldInfo, newInfo) {
		return errors.NewFileError("rename failed", newPath, errors.AlreadyExists, nil)
	}
	return errors.FromOS("rename", oldPath, os.Rename(oldPath, newPath))
}

func (g *OS) Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.FromOS("delete", path, err)
	}
	if info.IsDir() {
		return errors.FromOS("delete", path, os.RemoveAll(path))
	}
	return errors.FromOS("delete", path, os.Remove(path))
}

func (g *OS) CopyFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return errors.NewFileError("copy failed", dst, errors.AlreadyExists, nil)
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	if info.IsDir() {
		return errors.NewFileError("copy failed", src, errors.InvalidOperation, stderrors.New("source is a directory"))
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.FromOS("copy", dst, err)
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		os.Remove(dst)
		return errors.FromOS("copy", dst, err)
	}
	return errors.FromOS("copy", dst, destFile.Close())
}

func (g *OS) CopyDirectoryRecursive(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.FromOS("copy directory", src, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("copy directory failed", src, errors.InvalidOperation, stderrors.New("source is not a directory"))
	}
	if pathutil.HasPrefix(dst, src) {
		return errors.NewFileError("copy directory failed", dst, errors.InvalidOperation, stderrors.New("destination is inside the source"))
	}
	if _, err := os.Lstat(dst); err == nil {
		return errors.NewFileError("copy directory failed", dst, errors.AlreadyExists, nil)
	}

	var failures []error
	copyTree(src, dst, info.Mode().Perm(), &failures)
	if len(failures) > 0 {
		log.LogWithFields(log.F("src", src), log.F("failures", len(failures))).Warn("directory copy incomplete")
		return errors.NewFileError("copy directory incomplete", src, errors.IOError, stderrors.Join(failures...))
	}
	return nil
}

func copyTree(src, dst string, perm os.FileMode, failures *[]error) {
	if err := os.Mkdir(dst, perm|0700); err != nil {
		*failures = append(*failures, errors.FromOS("create directory", dst, err))
		return
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		*failures = append(*failures, errors.FromOS("list directory", src, err))
		return
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(from)
			if err == nil {
				err = os.Symlink(target, to)
			}
			if err != nil {
				*failures = append(*failures, errors.FromOS("copy link", from, err))
			}
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				*failures = append(*failures, errors.FromOS("copy directory", from, err))
				continue
			}
			copyTree(from, to, info.Mode().Perm(), failures)
		default:
			if err := copyFile(from, to); err != nil {
				*failures = append(*failures, err)
			}
		}
	}
}

func (g *OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FromOS("read", path, err)
	}
	return data, nil
}

func (g *OS) WriteFile(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return errors.NewFileError("write failed", path, errors.InvalidOperation, stderrors.New("path is a directory"))
		}
		perm = info.Mode().Perm()
	}
	return errors.FromOS("write", path, os.WriteFile(path, data, perm))
}
