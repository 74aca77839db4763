package hashval

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/google/vectorio"
	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// manifestEntry is one path and its hash, with the manifest line pre-encoded for writev
type manifestEntry struct {
	path string
	hash HashVal
	line []byte
}

func newManifestEntry(path string, h HashVal) *manifestEntry {
	line := make([]byte, 0, HexSize+2+len(path)+1)
	line = h.appendHex(line)
	line = append(line, ' ', ' ')
	line = append(line, path...)
	line = append(line, '\n')
	return &manifestEntry{path: path, hash: h, line: line}
}

// Manifest is a table of path -> HashVal kept sorted by path.
// It is stored on disk in md5sum format: "<32 hex digits>  <path>\n".
// Each entry carries a context string (StoredContext, ComputedContext).
type Manifest struct {
	entries *zcsl.ZeroCopySkiplist[manifestEntry, string, string]
}

// NewManifest creates an empty manifest
func NewManifest() *Manifest {
	getKey := func(e *manifestEntry) string {
		return e.path
	}
	getSize := func(e *manifestEntry) int {
		return len(e.line)
	}
	return &Manifest{
		entries: zcsl.MakeZeroCopySkiplist[manifestEntry, string, string](16, getKey, getSize, strings.Compare),
	}
}

// Add records the hash for path, replacing any existing entry
func (m *Manifest) Add(path string, h HashVal, context string) error {
	if path == "" {
		return fmt.Errorf("manifest path must not be empty")
	}
	if strings.ContainsAny(path, "\n\r") {
		return fmt.Errorf("manifest path must not contain line breaks: %q", path)
	}

	if item, _ := m.entries.Find(path); item != nil {
		m.entries.Delete(path)
	}
	if !m.entries.Insert(newManifestEntry(path, h), context) {
		return fmt.Errorf("failed to insert manifest entry for %s", path)
	}
	return nil
}

// Find returns the hash and context recorded for path
func (m *Manifest) Find(path string) (HashVal, string, bool) {
	item, context := m.entries.Find(path)
	if item == nil {
		return HashVal{}, "", false
	}
	return item.Item().hash, context, true
}

// Delete removes path, returning false if it was not present
func (m *Manifest) Delete(path string) bool {
	return m.entries.Delete(path)
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	return m.entries.Length()
}

// ForEach calls fn for each entry in path order until fn returns false
func (m *Manifest) ForEach(fn func(path string, h HashVal, context string) bool) {
	for current := m.entries.First(); current != nil; current = current.Next() {
		e := current.Item()
		if !fn(e.path, e.hash, current.Context()) {
			return
		}
	}
}

// Merge adds the entries of other; strategy decides which side wins on duplicate paths
func (m *Manifest) Merge(other *Manifest, strategy zcsl.MergeStrategy) error {
	if other == nil {
		return nil
	}
	return m.entries.Merge(other.entries, strategy)
}

// WriteTo writes the manifest in md5sum format
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for current := m.entries.First(); current != nil; current = current.Next() {
		n, err := w.Write(current.Item().line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// iovecs returns one iovec per entry line, in path order
func (m *Manifest) iovecs() ([]syscall.Iovec, int) {
	iovecs := make([]syscall.Iovec, 0, m.Len())
	total := 0
	for current := m.entries.First(); current != nil; current = current.Next() {
		line := current.Item().line
		iov := syscall.Iovec{Base: &line[0]}
		iov.SetLen(len(line))
		iovecs = append(iovecs, iov)
		total += len(line)
	}
	return iovecs, total
}

// WriteFile writes the manifest to filePath with writev, replacing the file atomically
func (m *Manifest) WriteFile(filePath string) error {
	defer VerboseEnter()()

	tempPath := fmt.Sprintf("%s.tmp-%d", filePath, os.Getpid())
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", tempPath, err)
	}
	committed := false
	defer func() {
		if !committed {
			file.Close()
			os.Remove(tempPath)
		}
	}()

	iovecs, expected := m.iovecs()
	written := 0
	// Chunk to respect the kernel's iovec limit
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}
		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs[offset:end])
		if err != nil {
			return fmt.Errorf("failed to write manifest entries with vectorio: %w", err)
		}
		written += nw
	}
	if written != expected {
		return fmt.Errorf("manifest write incomplete: wrote %d bytes, expected %d", written, expected)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync manifest: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		committed = true
		return fmt.Errorf("failed to rename manifest into place: %w", err)
	}
	committed = true

	VerboseLog(1, "wrote %d manifest entries (%d bytes) to %s", len(iovecs), written, filePath)
	return nil
}

// ReadManifest parses md5sum-format lines from r, tagging each entry with context.
// Blank lines and lines starting with '#' are skipped.
func ReadManifest(r io.Reader, context string) (*Manifest, error) {
	m := NewManifest()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 || line[0] == '#' {
			continue
		}

		path, h, err := parseManifestLine(line)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", lineNum, err)
		}
		if err := m.Add(path, h, context); err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return m, nil
}

// parseManifestLine splits "<hex>  <path>" or "<hex> *<path>"
func parseManifestLine(line []byte) (string, HashVal, error) {
	var h HashVal
	r := bytes.NewReader(line)
	if err := h.InputHex(r); err != nil {
		return "", HashVal{}, err
	}

	rest := line[len(line)-r.Len():]
	if len(rest) < 3 || rest[0] != ' ' || (rest[1] != ' ' && rest[1] != '*') {
		return "", HashVal{}, fmt.Errorf("expected two-space or ' *' separator after hash")
	}
	return string(rest[2:]), h, nil
}

// LoadManifest reads a manifest file; all entries get StoredContext
func LoadManifest(filePath string) (*Manifest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", filePath, err)
	}
	defer file.Close()
	return ReadManifest(file, StoredContext)
}

// VerifyStatus is the outcome of checking one manifest entry
type VerifyStatus int

const (
	VerifyOK VerifyStatus = iota
	VerifyMismatch
	VerifyMissing
	VerifyError
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyOK:
		return "OK"
	case VerifyMismatch:
		return "FAILED"
	case VerifyMissing:
		return "MISSING"
	default:
		return "ERROR"
	}
}

// VerifyResult reports the check of one manifest entry
type VerifyResult struct {
	Path     string
	Expected HashVal
	Actual   HashVal
	Status   VerifyStatus
	Error    error
}

// Verify rehashes every entry with hasher and compares it to the recorded value.
// Results are in path order.
func (m *Manifest) Verify(hasher *Hasher, workers int, shutdownChan <-chan struct{}) []VerifyResult {
	var paths []string
	var expected []HashVal
	m.ForEach(func(path string, h HashVal, context string) bool {
		paths = append(paths, path)
		expected = append(expected, h)
		return true
	})

	hashed := hasher.HashFiles(paths, workers, shutdownChan)
	results := make([]VerifyResult, len(paths))
	for i, fr := range hashed {
		res := VerifyResult{Path: fr.Path, Expected: expected[i], Actual: fr.Hash, Error: fr.Error}
		switch {
		case fr.Error == nil && fr.Hash == expected[i]:
			res.Status = VerifyOK
		case fr.Error == nil:
			res.Status = VerifyMismatch
		case errors.Is(fr.Error, os.ErrNotExist):
			res.Status = VerifyMissing
		default:
			res.Status = VerifyError
		}
		results[i] = res
	}
	return results
}
