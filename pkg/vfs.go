package hashval

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// FileSystem opens files for reading. HashFile goes through this interface
// so content can come from the OS or from memory.
type FileSystem interface {
	OpenRead(name string) (io.ReadSeekCloser, error)
}

// BinaryFilename returns the name to open for binary reading.
// Binary mode needs no translation on supported platforms, so this only cleans the path.
func BinaryFilename(name string) string {
	return filepath.Clean(name)
}

// OSFileSystem reads files from the operating system
type OSFileSystem struct{}

// OpenRead opens name and advises the kernel that it will be read sequentially
func (OSFileSystem) OpenRead(name string) (io.ReadSeekCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	// Best effort: the advice only affects readahead
	if err := unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil && IsDebugEnabled("vfs") {
		VerboseLog(1, "fadvise failed for %s: %v", name, err)
	}

	return file, nil
}

// MemFileSystem serves files from memory
type MemFileSystem struct {
	mutex sync.RWMutex
	files map[string][]byte
}

// NewMemFileSystem creates an empty in-memory file system
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{files: make(map[string][]byte)}
}

// Add stores a copy of data under name, replacing any existing file
func (m *MemFileSystem) Add(name string, data []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.files[BinaryFilename(name)] = append([]byte(nil), data...)
}

// Remove deletes name
func (m *MemFileSystem) Remove(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.files, BinaryFilename(name))
}

// OpenRead returns a reader over the stored content
func (m *MemFileSystem) OpenRead(name string) (io.ReadSeekCloser, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data, ok := m.files[BinaryFilename(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memFile{Reader: bytes.NewReader(data), name: name}, nil
}

type memFile struct {
	*bytes.Reader
	name   string
	closed bool
}

func (f *memFile) Close() error {
	if f.closed {
		return fmt.Errorf("close %s: file already closed", f.name)
	}
	f.closed = true
	return nil
}
