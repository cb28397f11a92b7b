// Package fedtime implements the logical time used by time management.
//
// Logical times are double precision values compared with a fixed epsilon
// so that values which differ only by floating point noise (for example after
// crossing a process boundary) compare equal. Zero and positive infinity are
// the reserved sentinels: a federate starts at Zero, and the LBTS of a
// federation without regulating federates is Infinity.
package fedtime
