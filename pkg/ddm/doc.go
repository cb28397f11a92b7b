// Package ddm implements data distribution management regions.
//
// A region lives in one routing space and is a union of extents. An extent
// bounds some dimensions of the space with half-open ranges; a dimension it
// does not mention spans the whole axis. Two regions overlap when they share a
// space and at least one extent of each overlaps on every dimension.
package ddm
