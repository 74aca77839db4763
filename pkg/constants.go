package hashval

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Value layout constants
const (
	WordCount  = 4              // Number of 32-bit words in a HashVal
	DigestSize = WordCount * 4  // Raw digest size in bytes (128 bits)
	HexSize    = DigestSize * 2 // Length of the hex text form
	BinSize    = DigestSize     // Length of the message (datagram) form
)

// DefaultChunkSize is the read size used when hashing a stream
const DefaultChunkSize = 1024

// MaxFramedMessage bounds the payload accepted by ReadFramed
const MaxFramedMessage = 64 * 1024

// Digest type constants
const (
	DigestTypeNone uint16 = 0 // No digest provider available
	DigestTypeMD5  uint16 = 1 // MD5 (16 bytes)
)

// DigestTypeName returns the human-readable name for a digest type
func DigestTypeName(digestType uint16) string {
	switch digestType {
	case DigestTypeNone:
		return "none"
	case DigestTypeMD5:
		return "md5"
	default:
		return "unknown"
	}
}

// DigestTypeFromName returns the digest type constant from a name (case-insensitive)
func DigestTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "none":
		return DigestTypeNone, true
	case "md5":
		return DigestTypeMD5, true
	default:
		return 0, false
	}
}

// Output format names
const (
	FormatHex       = "hex"
	FormatDec       = "dec"
	FormatBin       = "bin"
	FormatMultihash = "multihash"
)

// Manifest entry contexts
const (
	StoredContext   = "stored"   // Entry read from a manifest file
	ComputedContext = "computed" // Entry hashed in this process
)

// Manifest merge strategies from zerocopyskiplist
const (
	MergeTheirs = zcsl.MergeTheirs
	MergeOurs   = zcsl.MergeOurs
	MergeError  = zcsl.MergeError
)
