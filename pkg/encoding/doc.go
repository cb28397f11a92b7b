// Package encoding implements the HLA basic and constructed data elements.
//
// Every element reports its octet boundary and encoded length and encodes
// into or decodes from a Buffer. Before an element is written or read the
// buffer position is padded up to the element's octet boundary, measured
// from the start of the buffer. All multi-byte values are big endian.
//
// Failures (a buffer too small to encode into, a truncated input, an unknown
// variant discriminant) are rtierr.EncoderException errors.
package encoding
