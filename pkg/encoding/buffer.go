package encoding

import (
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// DataElement is an HLA encodable value.
type DataElement interface {
	// OctetBoundary is the alignment of the element in octets.
	OctetBoundary() int

	// EncodedLength is the number of octets Encode writes when the buffer
	// is already aligned to OctetBoundary.
	EncodedLength() int

	Encode(b *Buffer) error
	Decode(b *Buffer) error
}

// Buffer is a fixed size byte buffer with a read/write position.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer returns a zeroed buffer of size octets for encoding.
func NewBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Wrap returns a buffer positioned at the start of data for decoding.
func Wrap(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the whole underlying buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Pos returns the current position.
func (b *Buffer) Pos() int { return b.pos }

// Remaining returns the octets after the current position.
func (b *Buffer) Remaining() int { return len(b.data) - b.pos }

// Align advances the position to the next multiple of boundary. Padding
// octets are left as they are (zero in a fresh buffer).
func (b *Buffer) Align(boundary int) error {
	n := padding(b.pos, boundary)
	if n > b.Remaining() {
		return underflow(n, b)
	}
	b.pos += n
	return nil
}

// next returns the following n octets and advances past them.
func (b *Buffer) next(n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, underflow(n, b)
	}
	p := b.data[b.pos : b.pos+n]
	b.pos += n
	return p, nil
}

func underflow(n int, b *Buffer) error {
	return rtierr.Errorf(rtierr.EncoderException,
		"need %d octets at position %d but only %d remain", n, b.pos, b.Remaining())
}

func padding(pos, boundary int) int {
	if boundary <= 1 {
		return 0
	}
	if r := pos % boundary; r != 0 {
		return boundary - r
	}
	return 0
}

// Marshal encodes e into a new byte slice.
func Marshal(e DataElement) ([]byte, error) {
	b := NewBuffer(e.EncodedLength())
	if err := e.Encode(b); err != nil {
		return nil, err
	}
	return b.data[:b.pos], nil
}

// Unmarshal decodes data into e.
func Unmarshal(data []byte, e DataElement) error {
	return e.Decode(Wrap(data))
}

// alignedLength sums element lengths with the padding needed between them,
// starting from an aligned offset.
func alignedLength(start int, elems []DataElement) int {
	n := start
	for _, e := range elems {
		n += padding(n, e.OctetBoundary())
		n += e.EncodedLength()
	}
	return n
}

func maxBoundary(floor int, elems ...DataElement) int {
	b := floor
	for _, e := range elems {
		b = max(b, e.OctetBoundary())
	}
	return b
}
