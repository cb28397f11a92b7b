package encoding

import (
	"encoding/binary"
	"slices"
	"unicode/utf16"

	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// getCount reads an HLAinteger32BE element count and checks that at least
// count*size octets follow.
func getCount(b *Buffer, size int) (int, error) {
	u, err := getUint32(b)
	if err != nil {
		return 0, err
	}
	n := int(int32(u))
	if n < 0 {
		return 0, rtierr.Errorf(rtierr.EncoderException, "negative element count %d", n)
	}
	if size > 0 && n > b.Remaining()/size {
		return 0, underflow(n*size, b)
	}
	return n, nil
}

// UnicodeString is HLAunicodeString: an HLAinteger32BE count of UTF-16
// code units followed by the units, big endian.
type UnicodeString string

func (*UnicodeString) OctetBoundary() int { return 4 }

func (v *UnicodeString) EncodedLength() int {
	return 4 + 2*len(utf16.Encode([]rune(string(*v))))
}

func (v *UnicodeString) Encode(b *Buffer) error {
	units := utf16.Encode([]rune(string(*v)))
	if err := putUint32(b, uint32(len(units))); err != nil {
		return err
	}
	p, err := b.next(2 * len(units))
	if err != nil {
		return err
	}
	for i, u := range units {
		binary.BigEndian.PutUint16(p[2*i:], u)
	}
	return nil
}

func (v *UnicodeString) Decode(b *Buffer) error {
	n, err := getCount(b, 2)
	if err != nil {
		return err
	}
	p, err := b.next(2 * n)
	if err != nil {
		return err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(p[2*i:])
	}
	*v = UnicodeString(utf16.Decode(units))
	return nil
}

// ASCIIString is HLAASCIIstring: an HLAinteger32BE count followed by one
// octet per character. Characters outside ASCII encode as '?'.
type ASCIIString string

func (*ASCIIString) OctetBoundary() int { return 4 }

func (v *ASCIIString) EncodedLength() int {
	return 4 + len(asciiBytes(string(*v)))
}

func (v *ASCIIString) Encode(b *Buffer) error {
	s := asciiBytes(string(*v))
	if err := putUint32(b, uint32(len(s))); err != nil {
		return err
	}
	p, err := b.next(len(s))
	if err != nil {
		return err
	}
	copy(p, s)
	return nil
}

func (v *ASCIIString) Decode(b *Buffer) error {
	n, err := getCount(b, 1)
	if err != nil {
		return err
	}
	p, err := b.next(n)
	if err != nil {
		return err
	}
	*v = ASCIIString(p)
	return nil
}

func asciiBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7f {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

// OpaqueData is HLAopaqueData: an HLAinteger32BE length and the raw octets.
type OpaqueData []byte

func (*OpaqueData) OctetBoundary() int { return 4 }
func (v *OpaqueData) EncodedLength() int { return 4 + len(*v) }

func (v *OpaqueData) Encode(b *Buffer) error {
	if err := putUint32(b, uint32(len(*v))); err != nil {
		return err
	}
	p, err := b.next(len(*v))
	if err != nil {
		return err
	}
	copy(p, *v)
	return nil
}

func (v *OpaqueData) Decode(b *Buffer) error {
	n, err := getCount(b, 1)
	if err != nil {
		return err
	}
	p, err := b.next(n)
	if err != nil {
		return err
	}
	*v = slices.Clone(p)
	return nil
}
