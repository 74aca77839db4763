package hashval

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// Datagram is a growable message buffer. Integers added with AddUint32 are
// little-endian; AddBeUint32 is provided for fields that need network order.
type Datagram struct {
	data []byte
}

// NewDatagram creates a Datagram holding a copy of message
func NewDatagram(message []byte) *Datagram {
	return &Datagram{data: append([]byte(nil), message...)}
}

// AddUint32 appends v in little-endian order
func (dg *Datagram) AddUint32(v uint32) {
	dg.data = binary.LittleEndian.AppendUint32(dg.data, v)
}

// AddBeUint32 appends v in big-endian order
func (dg *Datagram) AddBeUint32(v uint32) {
	dg.data = binary.BigEndian.AppendUint32(dg.data, v)
}

// AddBytes appends raw bytes
func (dg *Datagram) AddBytes(b []byte) {
	dg.data = append(dg.data, b...)
}

// Message returns the payload. The slice aliases the Datagram.
func (dg *Datagram) Message() []byte {
	return dg.data
}

// Len returns the payload length in bytes
func (dg *Datagram) Len() int {
	return len(dg.data)
}

// Clear empties the payload
func (dg *Datagram) Clear() {
	dg.data = dg.data[:0]
}

// WriteFramed writes the payload preceded by its length as a uvarint
func (dg *Datagram) WriteFramed(w io.Writer) error {
	prefix := varint.ToUvarint(uint64(len(dg.data)))
	if _, err := w.Write(prefix); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(dg.data); err != nil {
		return fmt.Errorf("failed to write message payload: %w", err)
	}
	return nil
}

// ReadFramed reads one message written by WriteFramed
func ReadFramed(r io.Reader) (*Datagram, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &singleByteReader{r: r}
	}

	size, err := varint.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	if size > MaxFramedMessage {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, size, MaxFramedMessage)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read message payload: %w", err)
	}
	return &Datagram{data: data}, nil
}

// singleByteReader reads one byte at a time so nothing past the length prefix is consumed
type singleByteReader struct {
	r io.Reader
}

func (s *singleByteReader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// DatagramIterator reads integers back out of a Datagram in order.
// Reading past the end of the message is a programming error and panics.
type DatagramIterator struct {
	dg     *Datagram
	offset int
}

// NewDatagramIterator creates an iterator at the start of dg
func NewDatagramIterator(dg *Datagram) *DatagramIterator {
	return &DatagramIterator{dg: dg}
}

func (it *DatagramIterator) next(n int) []byte {
	if it.offset+n > len(it.dg.data) {
		panic(fmt.Sprintf("datagram iterator: read of %d bytes at offset %d past end of %d byte message",
			n, it.offset, len(it.dg.data)))
	}
	b := it.dg.data[it.offset : it.offset+n]
	it.offset += n
	return b
}

// GetUint32 reads a little-endian uint32
func (it *DatagramIterator) GetUint32() uint32 {
	return binary.LittleEndian.Uint32(it.next(4))
}

// GetBeUint32 reads a big-endian uint32
func (it *DatagramIterator) GetBeUint32() uint32 {
	return binary.BigEndian.Uint32(it.next(4))
}

// Remaining returns the number of unread bytes
func (it *DatagramIterator) Remaining() int {
	return len(it.dg.data) - it.offset
}

// WriteDatagram appends the four words to dg in message order
func (h HashVal) WriteDatagram(dg *Datagram) {
	for _, v := range h.hv {
		dg.AddUint32(v)
	}
}

// ReadDatagram reads the four words written by WriteDatagram
func (h *HashVal) ReadDatagram(it *DatagramIterator) {
	for i := range h.hv {
		h.hv[i] = it.GetUint32()
	}
}

// AsBin returns the value as a 16-byte message payload.
// The bytes are in message order, not the order written by OutputBinary.
func (h HashVal) AsBin() []byte {
	var dg Datagram
	dg.data = make([]byte, 0, BinSize)
	h.WriteDatagram(&dg)
	return dg.Message()
}

// SetFromBin sets the value from a 16-byte message payload produced by AsBin.
// Passing any other length is a programming error and panics.
func (h *HashVal) SetFromBin(b []byte) bool {
	if len(b) != BinSize {
		panic(fmt.Sprintf("SetFromBin: got %d bytes, expected %d", len(b), BinSize))
	}
	h.ReadDatagram(NewDatagramIterator(&Datagram{data: b}))
	return true
}
