// SPDX-License-Identifier: MIT
// Package cellgraph: sentinel error set.
// Every sentinel is classified under one errkind class so the pipeline can
// report the failure family without knowing this package.

package cellgraph

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "cellgraph"

var (
	// ErrBadSize is returned when the node count is not positive.
	ErrBadSize = errkind.Define(pkgName, "node count must be > 0", errkind.ErrDataShape)

	// ErrLengthMismatch is returned when triplet slices differ in length.
	ErrLengthMismatch = errkind.Define(pkgName, "triplet slices differ in length", errkind.ErrDataShape)

	// ErrIndexOutOfRange is returned when a triplet references a node ≥ n or < 0.
	ErrIndexOutOfRange = errkind.Define(pkgName, "node index out of range", errkind.ErrDataShape)

	// ErrInvalidWeight is returned for NaN, ±Inf or negative edge weights.
	ErrInvalidWeight = errkind.Define(pkgName, "edge weight must be finite and non-negative", errkind.ErrNumerical)

	// ErrShapeMismatch is returned when an operand block does not match the graph.
	ErrShapeMismatch = errkind.Define(pkgName, "operand shape does not match graph", errkind.ErrDataShape)

	// ErrNilGraph is returned when a nil *Graph is passed in.
	ErrNilGraph = errkind.Define(pkgName, "graph is nil", errkind.ErrConfiguration)
)
