package hashval

import (
	"fmt"

	mh "github.com/multiformats/go-multihash"
)

// AsMultihash returns the value as a self-describing md5 multihash
// carrying the big-endian digest bytes.
func (h HashVal) AsMultihash() ([]byte, error) {
	digest := h.Bytes()
	encoded, err := mh.Encode(digest[:], mh.MD5)
	if err != nil {
		return nil, fmt.Errorf("failed to encode multihash: %w", err)
	}
	return encoded, nil
}

// SetFromMultihash sets the value from an md5 multihash.
// On failure the value is unchanged.
func (h *HashVal) SetFromMultihash(buf []byte) error {
	decoded, err := mh.Decode(buf)
	if err != nil {
		return fmt.Errorf("failed to decode multihash: %w", err)
	}
	if decoded.Code != mh.MD5 {
		return fmt.Errorf("unsupported multihash code %#x (%s), expected md5", decoded.Code, decoded.Name)
	}
	return h.SetBytes(decoded.Digest)
}
