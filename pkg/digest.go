package hashval

import (
	"crypto/md5"
	"fmt"
	"hash"
	"strings"
)

// DigestProvider supplies the 128-bit digest primitive used to compute a HashVal.
// New returns an incremental hash (init, update, finalize); Digest is the one-shot form.
type DigestProvider interface {
	Name() string
	TypeID() uint16
	New() hash.Hash
	Digest(data []byte) [DigestSize]byte
}

// MD5Provider computes HashVals with MD5
type MD5Provider struct{}

func (MD5Provider) Name() string   { return "md5" }
func (MD5Provider) TypeID() uint16 { return DigestTypeMD5 }
func (MD5Provider) New() hash.Hash { return md5.New() }

func (MD5Provider) Digest(data []byte) [DigestSize]byte {
	return md5.Sum(data)
}

// GetDigestProvider returns the provider for the given algorithm name.
// "none" returns a nil provider, which makes hashing report ErrDigestUnsupported.
func GetDigestProvider(name string) (DigestProvider, error) {
	switch strings.ToLower(name) {
	case "md5":
		return MD5Provider{}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm: %s", name)
	}
}

// GetDigestProviderByType returns the provider for the given type ID
func GetDigestProviderByType(typeID uint16) (DigestProvider, error) {
	switch typeID {
	case DigestTypeMD5:
		return GetDigestProvider("md5")
	case DigestTypeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported digest type ID: %d", typeID)
	}
}

// ValidateDigestAlgorithm validates that a digest algorithm is supported
func ValidateDigestAlgorithm(algorithm string) error {
	switch strings.ToLower(algorithm) {
	case "md5", "none":
		return nil
	default:
		return fmt.Errorf("unsupported digest algorithm: %s (supported: md5, none)", algorithm)
	}
}

// finalize packs the result of an incremental hash into a HashVal
func finalize(hasher hash.Hash) (HashVal, error) {
	sum := hasher.Sum(nil)
	if len(sum) != DigestSize {
		return HashVal{}, fmt.Errorf("%w: provider returned %d bytes", ErrDigestSize, len(sum))
	}
	var md [DigestSize]byte
	copy(md[:], sum)
	return HashValFromDigest(md), nil
}
