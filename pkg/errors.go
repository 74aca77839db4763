package hashval

import "errors"

var (
	// ErrMalformedHex is returned when text is not exactly 32 hex digits
	ErrMalformedHex = errors.New("malformed hex hash value")

	// ErrMalformedDec is returned when text is not four 32-bit decimal numbers
	ErrMalformedDec = errors.New("malformed decimal hash value")

	// ErrDigestUnsupported is returned by hashing operations when no digest provider is configured
	ErrDigestUnsupported = errors.New("digest not supported: no provider configured")

	// ErrDigestSize is returned when a digest is not 16 bytes
	ErrDigestSize = errors.New("digest is not 128 bits")

	// ErrInterrupted is returned when hashing stops on a shutdown signal
	ErrInterrupted = errors.New("hash operation interrupted by shutdown")

	// ErrMessageTooLarge is returned when a framed message exceeds MaxFramedMessage
	ErrMessageTooLarge = errors.New("framed message too large")
)
