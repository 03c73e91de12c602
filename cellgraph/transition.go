// SPDX-License-Identifier: MIT
// Package: cellgraph
//
// Purpose:
//   - Expose the random-walk operator P = D⁻¹(A + wI) as an explicit sparse
//     operator applied to dense cells × k blocks, never materializing P·P.
//
// Isolated cells:
//   - A row with zero total weight (no edges, w = 0) has no outgoing
//     probability mass. It is applied as the identity row so the cell keeps
//     its own value instead of collapsing to zero.

package cellgraph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const opApply = "Transition.Apply"

// Transition is the row-stochastic operator derived from a Graph.
type Transition struct {
	g          *Graph
	selfWeight float64
	invDeg     []float64 // 1 / (deg_i + selfWeight); 0 for isolated rows
	isolated   []bool
	nIsolated  int
}

// NewTransition normalizes every row of g to sum to one.
//
// Errors:
//   - ErrNilGraph when g is nil.
func NewTransition(g *Graph, opts ...TransitionOption) (*Transition, error) {
	if g == nil {
		return nil, fmt.Errorf("NewTransition: %w", ErrNilGraph)
	}
	var o transitionOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := &Transition{
		g:          g,
		selfWeight: o.selfWeight,
		invDeg:     make([]float64, g.n),
		isolated:   make([]bool, g.n),
	}
	for i := 0; i < g.n; i++ {
		d := g.OutDegree(i) + o.selfWeight
		if d == 0 {
			t.isolated[i] = true
			t.nIsolated++
			continue
		}
		t.invDeg[i] = 1 / d
	}

	return t, nil
}

// N returns the number of cells the operator acts on.
func (t *Transition) N() int { return t.g.n }

// Isolated reports whether cell i has no outgoing weight.
func (t *Transition) Isolated(i int) bool { return t.isolated[i] }

// IsolatedCount returns the number of isolated cells.
func (t *Transition) IsolatedCount() int { return t.nIsolated }

// RowSum returns Σ_j P[i,j]; 1 for every row up to rounding.
func (t *Transition) RowSum(i int) float64 {
	if t.isolated[i] {
		return 1
	}
	_, ws := t.g.Row(i)
	s := t.selfWeight * t.invDeg[i]
	for _, w := range ws {
		s += w * t.invDeg[i]
	}

	return s
}

// Apply computes dst = P · src for dense blocks of shape N × k.
// dst and src must not alias.
//
// Complexity: O(nnz · k) time, no extra allocation.
func (t *Transition) Apply(dst, src *mat.Dense) error {
	n := t.g.n
	sr, sc := src.Dims()
	dr, dc := dst.Dims()
	if sr != n || dr != n || sc != dc {
		return fmt.Errorf("%s: graph %d, src %dx%d, dst %dx%d: %w",
			opApply, n, sr, sc, dr, dc, ErrShapeMismatch)
	}

	sRaw, dRaw := src.RawMatrix(), dst.RawMatrix()
	k := sc
	for i := 0; i < n; i++ {
		out := dRaw.Data[i*dRaw.Stride : i*dRaw.Stride+k]
		own := sRaw.Data[i*sRaw.Stride : i*sRaw.Stride+k]
		if t.isolated[i] {
			copy(out, own)
			continue
		}
		inv := t.invDeg[i]
		self := t.selfWeight * inv
		for c := range out {
			out[c] = self * own[c]
		}
		cols, ws := t.g.Row(i)
		for p, j := range cols {
			w := ws[p] * inv
			nb := sRaw.Data[j*sRaw.Stride : j*sRaw.Stride+k]
			for c := range out {
				out[c] += w * nb[c]
			}
		}
	}

	return nil
}
