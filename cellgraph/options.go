// SPDX-License-Identifier: MIT

package cellgraph

import "math"

// Defaults (single source of truth for zero-value behavior).
const (
	// DefaultSymmetrize leaves the stored orientation untouched.
	DefaultSymmetrize = false

	// DefaultDropSelfLoops keeps diagonal entries present in the input.
	DefaultDropSelfLoops = false

	// DefaultSymmetryEpsilon is the tolerance used by IsSymmetric callers
	// that do not pass their own.
	DefaultSymmetryEpsilon = 1e-9
)

const panicSelfWeightInvalid = "cellgraph: WithSelfWeight: weight must be finite, non-negative"

// Option configures graph construction.
type Option func(*options)

type options struct {
	symmetrize    bool
	dropSelfLoops bool
}

func defaultOptions() options {
	return options{
		symmetrize:    DefaultSymmetrize,
		dropSelfLoops: DefaultDropSelfLoops,
	}
}

// WithSymmetrize replaces A by (A + Aᵀ)/2 after duplicate merging.
// Use it for near-symmetric kNN connectivities.
func WithSymmetrize() Option {
	return func(o *options) { o.symmetrize = true }
}

// WithDropSelfLoops discards diagonal entries while building.
func WithDropSelfLoops() Option {
	return func(o *options) { o.dropSelfLoops = true }
}

// TransitionOption configures NewTransition.
type TransitionOption func(*transitionOptions)

type transitionOptions struct {
	selfWeight float64
}

// WithSelfWeight adds w to every diagonal entry before row normalization,
// turning P into a lazy walk. w must be finite and ≥ 0; panics otherwise.
func WithSelfWeight(w float64) TransitionOption {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		panic(panicSelfWeightInvalid)
	}

	return func(o *transitionOptions) { o.selfWeight = w }
}
