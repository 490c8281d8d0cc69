package filesystem

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystemProvider for tests.
// Paths use forward slashes; relative paths are resolved against root.
// Safe for concurrent use.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	root    string

	// opened counts Open calls that have not been closed yet.
	opened int
}

// NewMemoryFileSystem creates an empty in-memory filesystem rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    path.Clean(filepath.ToSlash(root)),
	}
	mfs.addDir(mfs.root)
	return mfs
}

// AddFile adds or replaces a file along with any missing parent directories.
func (mfs *MemoryFileSystem) AddFile(filePath, content string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := mfs.abs(filePath)
	mfs.entries[abs] = &memoryEntry{
		content: []byte(content),
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
	}
	for dir := path.Dir(abs); dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, ok := mfs.entries[dir]; ok {
			break
		}
		mfs.addDir(dir)
	}
}

// OpenCount returns the number of readers opened and not yet closed.
func (mfs *MemoryFileSystem) OpenCount() int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.opened
}

func (mfs *MemoryFileSystem) addDir(dir string) {
	mfs.entries[dir] = &memoryEntry{
		info: &memoryFileInfo{name: path.Base(dir), mode: 0755 | fs.ModeDir, modTime: time.Now()},
	}
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) lookup(op, p string) (*memoryEntry, error) {
	e, ok := mfs.entries[mfs.abs(p)]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
	}
	return e, nil
}

func (mfs *MemoryFileSystem) Open(p string) (io.ReadCloser, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	e, err := mfs.lookup("open", p)
	if err != nil {
		return nil, err
	}
	if e.info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrInvalid}
	}
	mfs.opened++
	return &memoryReader{Reader: bytes.NewReader(e.content), fs: mfs}, nil
}

func (mfs *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	e, err := mfs.lookup("read", p)
	if err != nil {
		return nil, err
	}
	if e.info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: p, Err: fs.ErrInvalid}
	}
	return bytes.Clone(e.content), nil
}

func (mfs *MemoryFileSystem) ReadDir(p string) ([]FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	dir, err := mfs.lookup("readdir", p)
	if err != nil {
		return nil, err
	}
	if !dir.info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrInvalid}
	}

	base := mfs.abs(p)
	var result []FileInfo
	for name, e := range mfs.entries {
		if name != base && path.Dir(name) == base {
			result = append(result, e.info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (mfs *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	e, err := mfs.lookup("stat", p)
	if err != nil {
		return nil, err
	}
	return e.info, nil
}

type memoryReader struct {
	*bytes.Reader
	fs     *MemoryFileSystem
	closed bool
}

func (r *memoryReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.fs.mu.Lock()
	r.fs.opened--
	r.fs.mu.Unlock()
	return nil
}

var (
	_ FileSystemProvider = (*MemoryFileSystem)(nil)
	_ FileSystemProvider = (*OSFileSystem)(nil)
)
