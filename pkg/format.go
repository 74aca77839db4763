package hashval

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FormatValue renders h in one of the named output formats.
// The binary formats (bin, multihash) are rendered as hex text.
func FormatValue(h HashVal, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatHex:
		return h.AsHex(), nil
	case FormatDec:
		return h.AsDec(), nil
	case FormatBin:
		return hex.EncodeToString(h.AsBin()), nil
	case FormatMultihash:
		encoded, err := h.AsMultihash()
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(encoded), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// ParseValue is the inverse of FormatValue
func ParseValue(text, format string) (HashVal, error) {
	var h HashVal
	switch strings.ToLower(format) {
	case FormatHex:
		return ParseHex(text)
	case FormatDec:
		if !h.SetFromDec(text) {
			return HashVal{}, ErrMalformedDec
		}
		return h, nil
	case FormatBin:
		raw, err := hex.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return HashVal{}, fmt.Errorf("invalid bin value: %w", err)
		}
		// SetFromBin panics on any other length
		if len(raw) != BinSize {
			return HashVal{}, fmt.Errorf("invalid bin value: got %d bytes, expected %d", len(raw), BinSize)
		}
		h.SetFromBin(raw)
		return h, nil
	case FormatMultihash:
		raw, err := hex.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return HashVal{}, fmt.Errorf("invalid multihash value: %w", err)
		}
		if err := h.SetFromMultihash(raw); err != nil {
			return HashVal{}, err
		}
		return h, nil
	default:
		return HashVal{}, fmt.Errorf("unsupported input format: %s", format)
	}
}
