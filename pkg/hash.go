package hashval

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Hasher computes HashVals from buffers, streams and files.
// A Hasher holds no mutable state and may be shared between goroutines.
type Hasher struct {
	Provider   DigestProvider // nil means hashing is unsupported
	FS         FileSystem     // used by HashFile; nil means the OS file system
	BufferSize int            // stream chunk size; <= 0 means DefaultChunkSize
}

// NewHasher creates a Hasher with the given provider and file system
func NewHasher(provider DigestProvider, fs FileSystem) *Hasher {
	return &Hasher{
		Provider:   provider,
		FS:         fs,
		BufferSize: DefaultChunkSize,
	}
}

var defaultHasher = NewHasher(MD5Provider{}, OSFileSystem{})

// DefaultHasher returns the MD5 hasher over the OS file system used by the HashVal methods
func DefaultHasher() *Hasher {
	return defaultHasher
}

func (hr *Hasher) chunkSize() int {
	if hr.BufferSize <= 0 {
		return DefaultChunkSize
	}
	return hr.BufferSize
}

func (hr *Hasher) fileSystem() FileSystem {
	if hr.FS == nil {
		return OSFileSystem{}
	}
	return hr.FS
}

// HashBuffer computes the HashVal of data (which may be empty)
func (hr *Hasher) HashBuffer(data []byte) (HashVal, error) {
	if hr.Provider == nil {
		return HashVal{}, ErrDigestUnsupported
	}
	return HashValFromDigest(hr.Provider.Digest(data)), nil
}

// HashStream computes the HashVal of the whole stream. The stream is first
// seeked to offset 0, then read in chunks until a read yields no data.
// Read errors are treated as the end of the data.
func (hr *Hasher) HashStream(rs io.ReadSeeker) (HashVal, error) {
	return hr.HashStreamInterruptible(rs, nil)
}

// HashStreamInterruptible is HashStream that checks shutdownChan between
// chunks and returns ErrInterrupted once it is closed. A nil channel never fires.
func (hr *Hasher) HashStreamInterruptible(rs io.ReadSeeker, shutdownChan <-chan struct{}) (HashVal, error) {
	defer VerboseEnter()()

	if hr.Provider == nil {
		return HashVal{}, ErrDigestUnsupported
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return HashVal{}, fmt.Errorf("failed to seek stream to start: %w", err)
	}

	hasher := hr.Provider.New()
	buffer := make([]byte, hr.chunkSize())
	var total int64

	for {
		// Check for shutdown signal before each read
		select {
		case <-shutdownChan:
			return HashVal{}, ErrInterrupted
		default:
		}

		count, done := readChunk(rs, buffer)
		if count > 0 {
			hasher.Write(buffer[:count])
			total += int64(count)
		}
		if done {
			break
		}
	}

	VerboseLog(3, "hashed %d bytes", total)
	return finalize(hasher)
}

// readChunk fills buf from r. It stops early, reporting done, on the first
// read that yields zero bytes or an error; read errors end the data.
func readChunk(r io.Reader, buf []byte) (int, bool) {
	n := 0
	for n < len(buf) {
		count, err := r.Read(buf[n:])
		n += count
		if count == 0 || err != nil {
			return n, true
		}
	}
	return n, false
}

// HashFile computes the HashVal of the named file, opened through the
// Hasher's file system. If the file cannot be opened the zero value is
// returned along with the error.
func (hr *Hasher) HashFile(filePath string) (HashVal, error) {
	return hr.HashFileInterruptible(filePath, nil)
}

// HashFileInterruptible is HashFile with a shutdown channel, see HashStreamInterruptible
func (hr *Hasher) HashFileInterruptible(filePath string, shutdownChan <-chan struct{}) (HashVal, error) {
	if hr.Provider == nil {
		return HashVal{}, ErrDigestUnsupported
	}

	file, err := hr.fileSystem().OpenRead(BinaryFilename(filePath))
	if err != nil {
		VerboseLog(2, "cannot open %s: %v", filePath, err)
		return HashVal{}, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	h, err := hr.HashStreamInterruptible(file, shutdownChan)
	if err != nil {
		return HashVal{}, fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}
	return h, nil
}

// FileResult is the outcome of hashing one file with HashFiles
type FileResult struct {
	Path  string
	Hash  HashVal
	Error error
}

// HashFiles hashes paths with up to workers concurrent goroutines.
// Results are returned in the same order as paths. Once shutdownChan is
// closed, files not yet started report ErrInterrupted.
func (hr *Hasher) HashFiles(paths []string, workers int, shutdownChan <-chan struct{}) []FileResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				h, err := hr.HashFileInterruptible(paths[i], shutdownChan)
				results[i] = FileResult{Path: paths[i], Hash: h, Error: err}
			}
		}()
	}

	for i := range paths {
		select {
		case <-shutdownChan:
			for j := i; j < len(paths); j++ {
				results[j] = FileResult{Path: paths[j], Error: ErrInterrupted}
			}
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil && !errors.Is(r.Error, ErrInterrupted) {
			failed++
		}
	}
	VerboseLog(1, "hashed %d files with %d workers, %d failed", len(paths), workers, failed)
	return results
}

// HashBuffer computes the hash of data with the default hasher
func (h *HashVal) HashBuffer(data []byte) error {
	v, err := defaultHasher.HashBuffer(data)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// HashStream computes the hash of the whole stream with the default hasher
func (h *HashVal) HashStream(rs io.ReadSeeker) error {
	v, err := defaultHasher.HashStream(rs)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// HashFile computes the hash of the named file with the default hasher.
// On failure the value is reset to the empty hash.
func (h *HashVal) HashFile(filePath string) error {
	v, err := defaultHasher.HashFile(filePath)
	*h = v
	return err
}
