package hashval

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

var testValue = NewHashVal(0x90015098, 0x3cd24fb0, 0xd6963f7d, 0x28e17f72)

func TestHashValZeroAndClear(t *testing.T) {
	var h HashVal
	if !h.IsZero() {
		t.Error("Expected zero value to be empty")
	}

	h = testValue
	if h.IsZero() {
		t.Error("Expected non-zero value after assignment")
	}

	h.Clear()
	if !h.IsZero() {
		t.Error("Expected value to be empty after Clear()")
	}
}

func TestHashValCompare(t *testing.T) {
	testCases := []struct {
		a, b HashVal
		want int
	}{
		{NewHashVal(1, 2, 3, 4), NewHashVal(1, 2, 3, 4), 0},
		{NewHashVal(1, 2, 3, 4), NewHashVal(1, 2, 3, 5), -1},
		{NewHashVal(2, 0, 0, 0), NewHashVal(1, 0xffffffff, 0xffffffff, 0xffffffff), 1},
		{HashVal{}, NewHashVal(0, 0, 0, 1), -1},
	}

	for _, tc := range testCases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("Compare(%s, %s) = %d, expected %d", tc.a, tc.b, got, tc.want)
		}
		if got := tc.a.Less(tc.b); got != (tc.want < 0) {
			t.Errorf("Less(%s, %s) = %v", tc.a, tc.b, got)
		}
		if got := tc.a.Equal(tc.b); got != (tc.want == 0) {
			t.Errorf("Equal(%s, %s) = %v", tc.a, tc.b, got)
		}
	}
}

func TestHashValMapKey(t *testing.T) {
	seen := map[HashVal]string{testValue: "abc"}
	copyOf := NewHashVal(testValue.Word(0), testValue.Word(1), testValue.Word(2), testValue.Word(3))
	if seen[copyOf] != "abc" {
		t.Error("Expected equal values to address the same map entry")
	}
}

func TestHashValMergeHash(t *testing.T) {
	a := testValue.MergeHash(0)
	b := testValue.MergeHash(0)
	if a != b {
		t.Errorf("MergeHash not deterministic: %x != %x", a, b)
	}
	if NewHashVal(1, 2, 3, 4).MergeHash(0) == NewHashVal(4, 3, 2, 1).MergeHash(0) {
		t.Error("Expected word order to affect MergeHash")
	}
	if testValue.MergeHash(a) == a {
		t.Error("Expected merging into a seed to change it")
	}
}

func TestHashValBytesPacking(t *testing.T) {
	md := [DigestSize]byte{
		0x90, 0x01, 0x50, 0x98, 0x3c, 0xd2, 0x4f, 0xb0,
		0xd6, 0x96, 0x3f, 0x7d, 0x28, 0xe1, 0x7f, 0x72,
	}
	h := HashValFromDigest(md)
	if h != testValue {
		t.Fatalf("HashValFromDigest packed %v, expected %v", h.Words(), testValue.Words())
	}
	if h.Bytes() != md {
		t.Errorf("Bytes() = %x, expected %x", h.Bytes(), md)
	}

	var h2 HashVal
	if err := h2.SetBytes(md[:]); err != nil {
		t.Fatalf("SetBytes() error = %v", err)
	}
	if h2 != testValue {
		t.Errorf("SetBytes() gave %s", h2)
	}
	if err := h2.SetBytes(md[:15]); err == nil {
		t.Error("Expected SetBytes to reject 15 bytes")
	}
}

func TestHexEncodeDecodeWord(t *testing.T) {
	var buf [8]byte
	encodeHex(0x0123abcd, buf[:])
	if string(buf[:]) != "0123abcd" {
		t.Errorf("encodeHex() = %s, expected 0123abcd", buf[:])
	}
	if got := decodeHex([]byte("0123ABCD")); got != 0x0123abcd {
		t.Errorf("decodeHex() = %#x, expected 0x0123abcd", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	values := []HashVal{
		{},
		testValue,
		NewHashVal(0xffffffff, 0, 0xffffffff, 0),
		NewHashVal(1, 2, 3, 4),
	}

	for _, v := range values {
		text := v.AsHex()
		if len(text) != HexSize {
			t.Errorf("AsHex() length = %d, expected %d", len(text), HexSize)
		}
		var got HashVal
		if !got.SetFromHex(text) {
			t.Errorf("SetFromHex(%q) failed", text)
			continue
		}
		if got != v {
			t.Errorf("Hex round trip: got %v, expected %v", got.Words(), v.Words())
		}
	}

	if testValue.AsHex() != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("AsHex() = %s", testValue.AsHex())
	}
	if testValue.String() != testValue.AsHex() {
		t.Error("Expected String() to be the hex form")
	}
}

func TestInputHexRejects(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \n"},
		{"31 digits", strings.Repeat("a", 31)},
		{"33 digits", strings.Repeat("a", 33)},
		{"non-hex before 32", strings.Repeat("a", 20) + "g" + strings.Repeat("a", 11)},
		{"prefixed", "0x" + strings.Repeat("a", 32)},
	}

	for _, tc := range testCases {
		h := testValue
		if h.SetFromHex(tc.input) {
			t.Errorf("%s: SetFromHex(%q) should fail", tc.name, tc.input)
		}
		if h != testValue {
			t.Errorf("%s: value changed on failed decode", tc.name)
		}
	}
}

func TestInputHexPushBack(t *testing.T) {
	r := strings.NewReader("  \t900150983cd24fb0d6963f7d28e17f72  rest")
	var h HashVal
	if err := h.InputHex(r); err != nil {
		t.Fatalf("InputHex() error = %v", err)
	}
	if h != testValue {
		t.Errorf("InputHex() = %s", h)
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != "  rest" {
		t.Errorf("Expected terminator to be left unread, remaining %q", rest)
	}

	// Two values back to back separated by whitespace
	r = strings.NewReader("00000000000000000000000000000001 00000000000000000000000000000002")
	var a, b HashVal
	if err := a.InputHex(r); err != nil {
		t.Fatalf("first InputHex() error = %v", err)
	}
	if err := b.InputHex(r); err != nil {
		t.Fatalf("second InputHex() error = %v", err)
	}
	if a.Word(3) != 1 || b.Word(3) != 2 {
		t.Errorf("Sequential reads gave %s and %s", a, b)
	}
}

func TestInputHexUppercase(t *testing.T) {
	var h HashVal
	if !h.SetFromHex("900150983CD24FB0D6963F7D28E17F72") {
		t.Fatal("Expected uppercase hex to decode")
	}
	if h != testValue {
		t.Errorf("Uppercase decode gave %s", h)
	}
}

func TestOutputHex(t *testing.T) {
	var buf bytes.Buffer
	if err := testValue.OutputHex(&buf); err != nil {
		t.Fatalf("OutputHex() error = %v", err)
	}
	if buf.String() != testValue.AsHex() {
		t.Errorf("OutputHex() = %q", buf.String())
	}
}

func TestParseHex(t *testing.T) {
	h, err := ParseHex(testValue.AsHex())
	if err != nil || h != testValue {
		t.Errorf("ParseHex() = %s, %v", h, err)
	}
	if _, err := ParseHex("xyz"); err != ErrMalformedHex {
		t.Errorf("Expected ErrMalformedHex, got %v", err)
	}
}
