package encoding

import (
	"encoding/binary"
	"math"
)

// Octet is HLAoctet.
type Octet byte

func (*Octet) OctetBoundary() int { return 1 }
func (*Octet) EncodedLength() int { return 1 }

func (v *Octet) Encode(b *Buffer) error {
	p, err := b.next(1)
	if err != nil {
		return err
	}
	p[0] = byte(*v)
	return nil
}

func (v *Octet) Decode(b *Buffer) error {
	p, err := b.next(1)
	if err != nil {
		return err
	}
	*v = Octet(p[0])
	return nil
}

// Integer16BE is HLAinteger16BE.
type Integer16BE int16

func (*Integer16BE) OctetBoundary() int { return 2 }
func (*Integer16BE) EncodedLength() int { return 2 }

func (v *Integer16BE) Encode(b *Buffer) error {
	p, err := alignedNext(b, 2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(p, uint16(*v))
	return nil
}

func (v *Integer16BE) Decode(b *Buffer) error {
	p, err := alignedNext(b, 2)
	if err != nil {
		return err
	}
	*v = Integer16BE(binary.BigEndian.Uint16(p))
	return nil
}

// Integer32BE is HLAinteger32BE.
type Integer32BE int32

func (*Integer32BE) OctetBoundary() int { return 4 }
func (*Integer32BE) EncodedLength() int { return 4 }

func (v *Integer32BE) Encode(b *Buffer) error {
	return putUint32(b, uint32(*v))
}

func (v *Integer32BE) Decode(b *Buffer) error {
	u, err := getUint32(b)
	if err != nil {
		return err
	}
	*v = Integer32BE(u)
	return nil
}

// Integer64BE is HLAinteger64BE.
type Integer64BE int64

func (*Integer64BE) OctetBoundary() int { return 8 }
func (*Integer64BE) EncodedLength() int { return 8 }

func (v *Integer64BE) Encode(b *Buffer) error {
	return putUint64(b, uint64(*v))
}

func (v *Integer64BE) Decode(b *Buffer) error {
	u, err := getUint64(b)
	if err != nil {
		return err
	}
	*v = Integer64BE(u)
	return nil
}

// Float32BE is HLAfloat32BE.
type Float32BE float32

func (*Float32BE) OctetBoundary() int { return 4 }
func (*Float32BE) EncodedLength() int { return 4 }

func (v *Float32BE) Encode(b *Buffer) error {
	return putUint32(b, math.Float32bits(float32(*v)))
}

func (v *Float32BE) Decode(b *Buffer) error {
	u, err := getUint32(b)
	if err != nil {
		return err
	}
	*v = Float32BE(math.Float32frombits(u))
	return nil
}

// Float64BE is HLAfloat64BE.
type Float64BE float64

func (*Float64BE) OctetBoundary() int { return 8 }
func (*Float64BE) EncodedLength() int { return 8 }

func (v *Float64BE) Encode(b *Buffer) error {
	return putUint64(b, math.Float64bits(float64(*v)))
}

func (v *Float64BE) Decode(b *Buffer) error {
	u, err := getUint64(b)
	if err != nil {
		return err
	}
	*v = Float64BE(math.Float64frombits(u))
	return nil
}

// Boolean is HLAboolean, encoded as an HLAinteger32BE of 1 or 0.
type Boolean bool

func (*Boolean) OctetBoundary() int { return 4 }
func (*Boolean) EncodedLength() int { return 4 }

func (v *Boolean) Encode(b *Buffer) error {
	var u uint32
	if *v {
		u = 1
	}
	return putUint32(b, u)
}

func (v *Boolean) Decode(b *Buffer) error {
	u, err := getUint32(b)
	if err != nil {
		return err
	}
	*v = u != 0
	return nil
}

func alignedNext(b *Buffer, n int) ([]byte, error) {
	if err := b.Align(n); err != nil {
		return nil, err
	}
	return b.next(n)
}

func putUint32(b *Buffer, u uint32) error {
	p, err := alignedNext(b, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p, u)
	return nil
}

func getUint32(b *Buffer) (uint32, error) {
	p, err := alignedNext(b, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func putUint64(b *Buffer, u uint64) error {
	p, err := alignedNext(b, 8)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(p, u)
	return nil
}

func getUint64(b *Buffer) (uint64, error) {
	p, err := alignedNext(b, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}
