package hashval

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestSortedAndReplace(t *testing.T) {
	m := NewManifest()
	for _, p := range []string{"c.txt", "a.txt", "b/z.txt"} {
		if err := m.Add(p, NewHashVal(uint32(len(p)), 0, 0, 0), ComputedContext); err != nil {
			t.Fatalf("Add(%s) error = %v", p, err)
		}
	}
	if err := m.Add("a.txt", testValue, StoredContext); err != nil {
		t.Fatal(err)
	}

	if m.Len() != 3 {
		t.Errorf("Expected 3 entries after replace, got %d", m.Len())
	}

	var order []string
	m.ForEach(func(path string, h HashVal, context string) bool {
		order = append(order, path)
		return true
	})
	if strings.Join(order, ",") != "a.txt,b/z.txt,c.txt" {
		t.Errorf("Unexpected order %v", order)
	}

	h, context, ok := m.Find("a.txt")
	if !ok || h != testValue || context != StoredContext {
		t.Errorf("Find(a.txt) = %s, %s, %v", h, context, ok)
	}
	if _, _, ok := m.Find("missing"); ok {
		t.Error("Expected Find(missing) to fail")
	}

	if !m.Delete("c.txt") || m.Delete("c.txt") {
		t.Error("Expected Delete to succeed once")
	}
}

func TestManifestRejectsBadPaths(t *testing.T) {
	m := NewManifest()
	for _, p := range []string{"", "two\nlines", "cr\r"} {
		if err := m.Add(p, testValue, ComputedContext); err == nil {
			t.Errorf("Expected Add(%q) to fail", p)
		}
	}
}

func TestManifestWriteTo(t *testing.T) {
	m := NewManifest()
	m.Add("z file.txt", testValue, ComputedContext)
	m.Add("a.txt", HashVal{}, ComputedContext)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	want := "00000000000000000000000000000000  a.txt\n" +
		"900150983cd24fb0d6963f7d28e17f72  z file.txt\n"
	if buf.String() != want {
		t.Errorf("WriteTo() = %q, expected %q", buf.String(), want)
	}
	if n != int64(len(want)) {
		t.Errorf("WriteTo() returned %d, expected %d", n, len(want))
	}
}

func TestManifestFileRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	manifestPath := filepath.Join(tempDir, "MD5SUMS")

	m := NewManifest()
	for i := 0; i < 2500; i++ {
		m.Add(fmt.Sprintf("dir/file-%05d", i), NewHashVal(uint32(i), uint32(i*3), 7, 0xffffffff), ComputedContext)
	}
	if err := m.WriteFile(manifestPath); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var want bytes.Buffer
	m.WriteTo(&want)
	got, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Error("WriteFile() content differs from WriteTo()")
	}

	loaded, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if loaded.Len() != m.Len() {
		t.Fatalf("Loaded %d entries, expected %d", loaded.Len(), m.Len())
	}
	loaded.ForEach(func(path string, h HashVal, context string) bool {
		orig, _, ok := m.Find(path)
		if !ok || orig != h {
			t.Errorf("Entry %s: loaded %s, written %s", path, h, orig)
			return false
		}
		if context != StoredContext {
			t.Errorf("Entry %s: context %s, expected %s", path, context, StoredContext)
			return false
		}
		return true
	})

	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 1 {
		t.Errorf("Expected only the manifest in %s, found %d entries", tempDir, len(entries))
	}
}

func TestReadManifestFormats(t *testing.T) {
	input := "# comment\n" +
		"\n" +
		"900150983cd24fb0d6963f7d28e17f72  abc.txt\n" +
		"d41d8cd98f00b204e9800998ecf8427e *empty.bin\n"
	m, err := ReadManifest(strings.NewReader(input), StoredContext)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if h, _, ok := m.Find("abc.txt"); !ok || h != testValue {
		t.Errorf("abc.txt = %s, %v", h, ok)
	}
	if h, _, ok := m.Find("empty.bin"); !ok || h.AsHex() != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("empty.bin = %s, %v", h, ok)
	}
}

func TestReadManifestErrors(t *testing.T) {
	testCases := []string{
		"900150983cd24fb0d6963f7d28e17f7  short.txt\n",
		"900150983cd24fb0d6963f7d28e17f72\n",
		"900150983cd24fb0d6963f7d28e17f72 x\n",
		"900150983cd24fb0d6963f7d28e17f72\tx\n",
	}
	for _, input := range testCases {
		if _, err := ReadManifest(strings.NewReader(input), StoredContext); err == nil {
			t.Errorf("Expected ReadManifest(%q) to fail", input)
		} else if !strings.Contains(err.Error(), "line 1") {
			t.Errorf("Expected line number in error, got %v", err)
		}
	}
}

func TestManifestMerge(t *testing.T) {
	stored := NewManifest()
	stored.Add("a", NewHashVal(1, 0, 0, 0), StoredContext)
	stored.Add("b", NewHashVal(2, 0, 0, 0), StoredContext)

	computed := NewManifest()
	computed.Add("b", NewHashVal(20, 0, 0, 0), ComputedContext)
	computed.Add("c", NewHashVal(3, 0, 0, 0), ComputedContext)

	if err := stored.Merge(computed, MergeTheirs); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if stored.Len() != 3 {
		t.Errorf("Expected 3 entries after merge, got %d", stored.Len())
	}
	if h, _, _ := stored.Find("b"); h.Word(0) != 20 {
		t.Errorf("Expected theirs to win for b, got %s", h)
	}
	if stored.Merge(nil, MergeTheirs) != nil {
		t.Error("Expected merging nil to be a no-op")
	}
}

func TestManifestVerify(t *testing.T) {
	fs := NewMemFileSystem()
	fs.Add("good", []byte("abc"))
	fs.Add("changed", []byte("new content"))
	hasher := NewHasher(MD5Provider{}, fs)

	m := NewManifest()
	m.Add("good", testValue, StoredContext)
	m.Add("changed", testValue, StoredContext)
	m.Add("gone", testValue, StoredContext)

	results := m.Verify(hasher, 2, nil)
	want := map[string]VerifyStatus{
		"changed": VerifyMismatch,
		"gone":    VerifyMissing,
		"good":    VerifyOK,
	}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for _, r := range results {
		if r.Status != want[r.Path] {
			t.Errorf("%s: status %s, expected %s", r.Path, r.Status, want[r.Path])
		}
		if r.Expected != testValue {
			t.Errorf("%s: expected value %s", r.Path, r.Expected)
		}
	}
	if results[0].Path != "changed" {
		t.Errorf("Expected results in path order, first is %s", results[0].Path)
	}

	unsupported := NewHasher(nil, fs)
	for _, r := range m.Verify(unsupported, 1, nil) {
		if r.Status != VerifyError {
			t.Errorf("%s: expected ERROR without a digest provider, got %s", r.Path, r.Status)
		}
	}
}
