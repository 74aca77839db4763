// Package hashval provides HashVal, a 128-bit content hash value, with
// bit-exact text and binary encodings and helpers to compute it from
// buffers, streams and files.
//
// # Computing a hash
//
//	var h hashval.HashVal
//	if err := h.HashFile("/path/to/file"); err != nil {
//		// h is now the empty hash
//	}
//	fmt.Println(h.AsHex())
//
// The digest bytes are packed into four 32-bit words big-endian, so the hex
// form matches the usual md5sum output.
//
// # Encodings
//
// A HashVal has four independent encodings:
//   - Hex text: OutputHex, InputHex, AsHex, SetFromHex (32 lowercase digits)
//   - Decimal text: OutputDec, InputDec, AsDec, SetFromDec ("w0 w1 w2 w3")
//   - Big-endian binary: OutputBinary, InputBinary (16 bytes, network order)
//   - Message form: AsBin, SetFromBin, WriteDatagram, ReadDatagram
//     (16 bytes, little-endian words)
//
// The big-endian binary form and the message form are different byte
// sequences for the same value and must not be mixed up.
//
// # Digest providers
//
// Hashing goes through a DigestProvider. MD5Provider is built in; a Hasher
// with a nil provider reports ErrDigestUnsupported.
//
// # Manifests
//
// Manifest keeps a sorted path -> HashVal table and reads and writes it in
// md5sum format.
package hashval
