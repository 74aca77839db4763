package hashval

import (
	"io"
	"strings"
)

const hexDigits = "0123456789abcdef"

// encodeHex writes val as eight hex digits into dst, most significant nibble first
func encodeHex(val uint32, dst []byte) {
	for i := 0; i < 8; i++ {
		dst[i] = hexDigits[(val>>(28-4*uint(i)))&0xf]
	}
}

// decodeHex parses eight hex digits from src. src must contain only hex digits.
func decodeHex(src []byte) uint32 {
	var val uint32
	for i := 0; i < 8; i++ {
		val = val<<4 | uint32(fromHex(src[i]))
	}
	return val
}

func fromHex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// skipSpace consumes leading whitespace and unreads the first other byte.
// Returns io.EOF if the input ends first.
func skipSpace(r io.ByteScanner) error {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return err
		}
		if !isSpace(c) {
			return r.UnreadByte()
		}
	}
}

func (h HashVal) appendHex(dst []byte) []byte {
	var buf [HexSize]byte
	for i, w := range h.hv {
		encodeHex(w, buf[i*8:])
	}
	return append(dst, buf[:]...)
}

// OutputHex writes the value as 32 lowercase hex digits, words 0..3, no separators
func (h HashVal) OutputHex(w io.Writer) error {
	_, err := w.Write(h.appendHex(nil))
	return err
}

// InputHex reads a 32-digit hex value after skipping leading whitespace.
// The whole run of consecutive hex digits must be exactly 32 long; the byte
// that ends the run is left unread, and an error from UnreadByte is returned.
// On failure the value is unchanged.
func (h *HashVal) InputHex(r io.ByteScanner) error {
	if err := skipSpace(r); err != nil {
		return ErrMalformedHex
	}

	var buf [HexSize]byte
	n := 0
	for {
		c, err := r.ReadByte()
		if err != nil {
			break
		}
		if !isHexDigit(c) {
			if n == HexSize {
				if err := r.UnreadByte(); err != nil {
					return err
				}
			}
			break
		}
		if n < HexSize {
			buf[n] = c
		}
		n++
	}

	if n != HexSize {
		return ErrMalformedHex
	}

	for i := 0; i < WordCount; i++ {
		h.hv[i] = decodeHex(buf[i*8:])
	}
	return nil
}

// AsHex returns the 32-digit hex form
func (h HashVal) AsHex() string {
	return string(h.appendHex(make([]byte, 0, HexSize)))
}

// SetFromHex sets the value from a 32-digit hex string.
// Returns true if successful, false otherwise.
func (h *HashVal) SetFromHex(text string) bool {
	return h.InputHex(strings.NewReader(text)) == nil
}

// ParseHex returns the HashVal encoded by a 32-digit hex string
func ParseHex(text string) (HashVal, error) {
	var h HashVal
	if err := h.InputHex(strings.NewReader(text)); err != nil {
		return HashVal{}, err
	}
	return h, nil
}
