package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider opens and inspects files by path.
// Missing files yield errors satisfying errors.Is(err, fs.ErrNotExist).
type FileSystemProvider interface {
	// Open returns a streaming reader; the caller must close it.
	Open(path string) (io.ReadCloser, error)

	ReadFile(path string) ([]byte, error)

	// ReadDir lists the regular files and directories directly under path, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	Stat(path string) (FileInfo, error)
}
