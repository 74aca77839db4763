package hashval

import (
	"encoding/binary"
	"io"
)

// StreamWriter writes fixed-size integers to an io.Writer.
// The first write error is kept and later writes are skipped.
type StreamWriter struct {
	w   io.Writer
	err error
}

// NewStreamWriter creates a StreamWriter over w
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// AddUint32 writes v in little-endian (native message) order
func (sw *StreamWriter) AddUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	sw.write(b[:])
}

// AddBeUint32 writes v in big-endian order
func (sw *StreamWriter) AddBeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	sw.write(b[:])
}

func (sw *StreamWriter) write(b []byte) {
	if sw.err != nil {
		return
	}
	_, sw.err = sw.w.Write(b)
}

// Err returns the first error encountered
func (sw *StreamWriter) Err() error {
	return sw.err
}

// StreamReader reads fixed-size integers from an io.Reader.
// After the first error every read returns 0.
type StreamReader struct {
	r   io.Reader
	err error
}

// NewStreamReader creates a StreamReader over r
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// GetUint32 reads a little-endian uint32
func (sr *StreamReader) GetUint32() uint32 {
	var b [4]byte
	if !sr.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

// GetBeUint32 reads a big-endian uint32
func (sr *StreamReader) GetBeUint32() uint32 {
	var b [4]byte
	if !sr.read(b[:]) {
		return 0
	}
	return binary.BigEndian.Uint32(b[:])
}

func (sr *StreamReader) read(b []byte) bool {
	if sr.err != nil {
		return false
	}
	if _, err := io.ReadFull(sr.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		sr.err = err
		return false
	}
	return true
}

// Err returns the first error encountered
func (sr *StreamReader) Err() error {
	return sr.err
}

// OutputBinary writes the value as 16 bytes: four big-endian words in order.
// This is not the same byte order as WriteStream or AsBin.
func (h HashVal) OutputBinary(w io.Writer) error {
	sw := NewStreamWriter(w)
	for _, v := range h.hv {
		sw.AddBeUint32(v)
	}
	return sw.Err()
}

// InputBinary reads 16 bytes written by OutputBinary.
// Short input returns io.ErrUnexpectedEOF and leaves the value unchanged.
func (h *HashVal) InputBinary(r io.Reader) error {
	sr := NewStreamReader(r)
	var words [WordCount]uint32
	for i := range words {
		words[i] = sr.GetBeUint32()
	}
	if err := sr.Err(); err != nil {
		return err
	}
	h.hv = words
	return nil
}

// WriteStream writes the four words in little-endian message order.
// This is not the same byte order as OutputBinary.
func (h HashVal) WriteStream(w io.Writer) error {
	sw := NewStreamWriter(w)
	for _, v := range h.hv {
		sw.AddUint32(v)
	}
	return sw.Err()
}

// ReadStream reads 16 bytes written by WriteStream
func (h *HashVal) ReadStream(r io.Reader) error {
	sr := NewStreamReader(r)
	var words [WordCount]uint32
	for i := range words {
		words[i] = sr.GetUint32()
	}
	if err := sr.Err(); err != nil {
		return err
	}
	h.hv = words
	return nil
}
