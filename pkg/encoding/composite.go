package encoding

import (
	"bytes"

	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// FixedRecord is HLAfixedRecord: its fields in order, each aligned to its
// own boundary.
type FixedRecord struct {
	Fields []DataElement
}

// NewFixedRecord returns a record of the given fields.
func NewFixedRecord(fields ...DataElement) *FixedRecord {
	return &FixedRecord{Fields: fields}
}

// Add appends a field.
func (r *FixedRecord) Add(e DataElement) { r.Fields = append(r.Fields, e) }

func (r *FixedRecord) OctetBoundary() int { return maxBoundary(1, r.Fields...) }
func (r *FixedRecord) EncodedLength() int { return alignedLength(0, r.Fields) }

func (r *FixedRecord) Encode(b *Buffer) error {
	if err := b.Align(r.OctetBoundary()); err != nil {
		return err
	}
	return encodeAll(b, r.Fields)
}

func (r *FixedRecord) Decode(b *Buffer) error {
	if err := b.Align(r.OctetBoundary()); err != nil {
		return err
	}
	return decodeAll(b, r.Fields)
}

// FixedArray is HLAfixedArray. Its elements must be present, all of one type,
// before decoding.
type FixedArray struct {
	Elements []DataElement
}

// NewFixedArray returns an array of the given elements.
func NewFixedArray(elems ...DataElement) *FixedArray {
	return &FixedArray{Elements: elems}
}

func (a *FixedArray) OctetBoundary() int { return maxBoundary(1, a.Elements...) }
func (a *FixedArray) EncodedLength() int { return alignedLength(0, a.Elements) }

func (a *FixedArray) Encode(b *Buffer) error {
	if err := b.Align(a.OctetBoundary()); err != nil {
		return err
	}
	return encodeAll(b, a.Elements)
}

func (a *FixedArray) Decode(b *Buffer) error {
	if err := b.Align(a.OctetBoundary()); err != nil {
		return err
	}
	return decodeAll(b, a.Elements)
}

// VariableArray is HLAvariableArray: an HLAinteger32BE element count, then
// the elements. New creates an empty element when decoding.
type VariableArray struct {
	New      func() DataElement
	Elements []DataElement
}

// NewVariableArray returns an array whose decoded elements come from newElem.
func NewVariableArray(newElem func() DataElement, elems ...DataElement) *VariableArray {
	return &VariableArray{New: newElem, Elements: elems}
}

// Add appends an element.
func (a *VariableArray) Add(e DataElement) { a.Elements = append(a.Elements, e) }

func (a *VariableArray) OctetBoundary() int {
	if a.New != nil {
		return maxBoundary(4, a.New())
	}
	return maxBoundary(4, a.Elements...)
}

func (a *VariableArray) EncodedLength() int { return alignedLength(4, a.Elements) }

func (a *VariableArray) Encode(b *Buffer) error {
	if err := b.Align(a.OctetBoundary()); err != nil {
		return err
	}
	if err := putUint32(b, uint32(len(a.Elements))); err != nil {
		return err
	}
	return encodeAll(b, a.Elements)
}

func (a *VariableArray) Decode(b *Buffer) error {
	if a.New == nil {
		return rtierr.New(rtierr.EncoderException, "variable array has no element factory")
	}
	if err := b.Align(a.OctetBoundary()); err != nil {
		return err
	}
	n, err := getCount(b, 1)
	if err != nil {
		return err
	}
	elems := make([]DataElement, n)
	for i := range elems {
		elems[i] = a.New()
	}
	if err := decodeAll(b, elems); err != nil {
		return err
	}
	a.Elements = elems
	return nil
}

type alternative struct {
	key     []byte
	element DataElement
}

// VariantRecord is HLAvariantRecord: a discriminant followed by the
// alternative it selects. Discriminants are compared by their encoding.
type VariantRecord struct {
	Discriminant DataElement
	alternatives []alternative
}

// NewVariantRecord returns a record whose discriminant is decoded into d.
func NewVariantRecord(d DataElement) *VariantRecord {
	return &VariantRecord{Discriminant: d}
}

// SetVariant registers the alternative for discriminant d, replacing any
// earlier one for the same discriminant.
func (r *VariantRecord) SetVariant(d DataElement, e DataElement) error {
	key, err := Marshal(d)
	if err != nil {
		return err
	}
	for i := range r.alternatives {
		if bytes.Equal(r.alternatives[i].key, key) {
			r.alternatives[i].element = e
			return nil
		}
	}
	r.alternatives = append(r.alternatives, alternative{key: key, element: e})
	return nil
}

// Value returns the alternative selected by the current discriminant.
func (r *VariantRecord) Value() (DataElement, error) {
	key, err := Marshal(r.Discriminant)
	if err != nil {
		return nil, err
	}
	for _, a := range r.alternatives {
		if bytes.Equal(a.key, key) {
			return a.element, nil
		}
	}
	return nil, rtierr.New(rtierr.EncoderException, "no alternative for discriminant")
}

func (r *VariantRecord) OctetBoundary() int {
	b := maxBoundary(1, r.Discriminant)
	for _, a := range r.alternatives {
		b = max(b, a.element.OctetBoundary())
	}
	return b
}

func (r *VariantRecord) EncodedLength() int {
	v, err := r.Value()
	if err != nil {
		return r.Discriminant.EncodedLength()
	}
	return alignedLength(0, []DataElement{r.Discriminant, v})
}

func (r *VariantRecord) Encode(b *Buffer) error {
	v, err := r.Value()
	if err != nil {
		return err
	}
	if err := b.Align(r.OctetBoundary()); err != nil {
		return err
	}
	return encodeAll(b, []DataElement{r.Discriminant, v})
}

func (r *VariantRecord) Decode(b *Buffer) error {
	if err := b.Align(r.OctetBoundary()); err != nil {
		return err
	}
	if err := r.Discriminant.Decode(b); err != nil {
		return err
	}
	v, err := r.Value()
	if err != nil {
		return err
	}
	if err := b.Align(v.OctetBoundary()); err != nil {
		return err
	}
	return v.Decode(b)
}

func encodeAll(b *Buffer, elems []DataElement) error {
	for _, e := range elems {
		if err := b.Align(e.OctetBoundary()); err != nil {
			return err
		}
		if err := e.Encode(b); err != nil {
			return err
		}
	}
	return nil
}

func decodeAll(b *Buffer, elems []DataElement) error {
	for _, e := range elems {
		if err := b.Align(e.OctetBoundary()); err != nil {
			return err
		}
		if err := e.Decode(b); err != nil {
			return err
		}
	}
	return nil
}
