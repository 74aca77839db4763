package hashval

import (
	"io"
	"strconv"
	"strings"
)

// OutputDec writes the value as four unsigned decimal numbers separated by single spaces
func (h HashVal) OutputDec(w io.Writer) error {
	_, err := io.WriteString(w, h.AsDec())
	return err
}

// InputDec reads four unsigned decimal numbers, each optionally preceded by
// whitespace and a '+' sign, each fitting in 32 bits. The byte following the
// last number is left unread. On failure the value is unchanged.
func (h *HashVal) InputDec(r io.ByteScanner) error {
	var words [WordCount]uint32
	for i := range words {
		w, err := readDecWord(r)
		if err != nil {
			return err
		}
		words[i] = w
	}
	h.hv = words
	return nil
}

func readDecWord(r io.ByteScanner) (uint32, error) {
	if err := skipSpace(r); err != nil {
		return 0, ErrMalformedDec
	}

	c, err := r.ReadByte()
	if err != nil {
		return 0, ErrMalformedDec
	}
	if c == '+' {
		if c, err = r.ReadByte(); err != nil {
			return 0, ErrMalformedDec
		}
	}

	var val uint64
	digits := 0
	for {
		if c < '0' || c > '9' {
			if err := r.UnreadByte(); err != nil {
				return 0, err
			}
			break
		}
		val = val*10 + uint64(c-'0')
		if val > 0xffffffff {
			return 0, ErrMalformedDec
		}
		digits++
		if c, err = r.ReadByte(); err != nil {
			break
		}
	}

	if digits == 0 {
		return 0, ErrMalformedDec
	}
	return uint32(val), nil
}

// AsDec returns the value as four decimal numbers, e.g. "1 2 3 4"
func (h HashVal) AsDec() string {
	b := make([]byte, 0, WordCount*11)
	for i, w := range h.hv {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendUint(b, uint64(w), 10)
	}
	return string(b)
}

// SetFromDec sets the value from a string with four decimal numbers.
// Returns true if valid, false otherwise.
func (h *HashVal) SetFromDec(text string) bool {
	return h.InputDec(strings.NewReader(text)) == nil
}
