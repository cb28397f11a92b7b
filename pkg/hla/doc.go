// Package hla defines the identifiers and value containers shared by every
// RTI service: per-category handle types, handle sets, handle-value maps and
// the small enumerations (resign action, order type) that appear in service
// signatures.
//
// Each handle category is its own integer type, so an attribute handle cannot
// be passed where an object instance handle is expected. The zero value of
// every handle type is never assigned and means "no handle".
package hla
