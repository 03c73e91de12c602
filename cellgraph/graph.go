// SPDX-License-Identifier: MIT
// Package: cellgraph
//
// Purpose:
//   - Hold the cell × cell neighbor graph in compressed sparse row (CSR) form.
//   - Build it deterministically from (row, col, value) triplets as stored by
//     single-cell containers.
//
// Determinism:
//   - Rows are laid out i asc; inside a row columns are j asc.
//   - Duplicate (i,j) triplets are summed; explicit zeros are dropped.
//
// Complexity quicksheet:
//   - FromTriplets: O(nnz log d) time (d = max row length), O(n + nnz) space.
//   - Row/OutDegree: O(1) / O(d).

package cellgraph

import (
	"fmt"
	"math"
	"sort"
)

const (
	opFromTriplets = "FromTriplets"
	opSymmetrize   = "Symmetrize"
)

// Graph is an immutable weighted adjacency over n cells in CSR layout.
// indptr has n+1 entries; row i occupies indices/weights[indptr[i]:indptr[i+1]].
type Graph struct {
	n       int
	indptr  []int
	indices []int
	weights []float64
}

// FromTriplets builds an n-node graph from parallel triplet slices.
//
// Implementation:
//   - Stage 1: validate n, slice lengths, indices and weights.
//   - Stage 2: counting-sort triplets by row, then sort each row by column.
//   - Stage 3: merge duplicates (sum), drop zeros, optionally drop loops.
//   - Stage 4: optionally symmetrize as (A + Aᵀ)/2.
//
// Errors:
//   - ErrBadSize, ErrLengthMismatch, ErrIndexOutOfRange, ErrInvalidWeight.
func FromTriplets(n int, rows, cols []int, vals []float64, opts ...Option) (*Graph, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Stage 1: validate.
	if n <= 0 {
		return nil, fmt.Errorf("%s: n=%d: %w", opFromTriplets, n, ErrBadSize)
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, fmt.Errorf("%s: len(rows)=%d len(cols)=%d len(vals)=%d: %w",
			opFromTriplets, len(rows), len(cols), len(vals), ErrLengthMismatch)
	}
	for k := range rows {
		if rows[k] < 0 || rows[k] >= n || cols[k] < 0 || cols[k] >= n {
			return nil, fmt.Errorf("%s: triplet %d (%d,%d) with n=%d: %w",
				opFromTriplets, k, rows[k], cols[k], n, ErrIndexOutOfRange)
		}
		if v := vals[k]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%s: triplet %d (%d,%d)=%g: %w",
				opFromTriplets, k, rows[k], cols[k], v, ErrInvalidWeight)
		}
	}

	// Stage 2: bucket by row.
	counts := make([]int, n+1)
	for _, r := range rows {
		counts[r+1]++
	}
	for i := 0; i < n; i++ {
		counts[i+1] += counts[i]
	}
	next := append([]int(nil), counts[:n]...)
	bCols := make([]int, len(rows))
	bVals := make([]float64, len(rows))
	for k, r := range rows {
		p := next[r]
		bCols[p] = cols[k]
		bVals[p] = vals[k]
		next[r]++
	}

	// Stage 3: per-row sort, merge, filter.
	g := &Graph{n: n, indptr: make([]int, n+1)}
	g.indices = make([]int, 0, len(rows))
	g.weights = make([]float64, 0, len(rows))
	for i := 0; i < n; i++ {
		lo, hi := counts[i], counts[i+1]
		sort.Stable(rowSorter{cols: bCols[lo:hi], vals: bVals[lo:hi]})
		for p := lo; p < hi; {
			j, w := bCols[p], bVals[p]
			for p++; p < hi && bCols[p] == j; p++ {
				w += bVals[p]
			}
			if w == 0 || (o.dropSelfLoops && i == j) {
				continue
			}
			g.indices = append(g.indices, j)
			g.weights = append(g.weights, w)
		}
		g.indptr[i+1] = len(g.indices)
	}

	// Stage 4: symmetrize on request.
	if o.symmetrize {
		return g.symmetrized(), nil
	}

	return g, nil
}

// N returns the node (cell) count.
func (g *Graph) N() int { return g.n }

// NNZ returns the number of stored edges.
func (g *Graph) NNZ() int { return len(g.indices) }

// Row returns the column indices and weights of row i.
// The returned slices alias internal storage and must not be modified.
func (g *Graph) Row(i int) ([]int, []float64) {
	lo, hi := g.indptr[i], g.indptr[i+1]
	return g.indices[lo:hi], g.weights[lo:hi]
}

// OutDegree returns the weighted out-degree Σ_j A[i,j].
func (g *Graph) OutDegree(i int) float64 {
	_, ws := g.Row(i)
	var s float64
	for _, w := range ws {
		s += w
	}

	return s
}

// Weight returns A[i,j] (0 when absent). O(log d).
func (g *Graph) Weight(i, j int) float64 {
	cols, ws := g.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return ws[k]
	}

	return 0
}

// IsSymmetric reports whether |A[i,j] − A[j,i]| ≤ eps for every stored entry.
func (g *Graph) IsSymmetric(eps float64) bool {
	for i := 0; i < g.n; i++ {
		cols, ws := g.Row(i)
		for k, j := range cols {
			if math.Abs(ws[k]-g.Weight(j, i)) > eps {
				return false
			}
		}
	}

	return true
}

// Triplets returns the stored entries as parallel (row, col, value) slices in
// CSR order. Used by writers that persist the graph.
func (g *Graph) Triplets() (rows, cols []int, vals []float64) {
	rows = make([]int, 0, g.NNZ())
	for i := 0; i < g.n; i++ {
		for p := g.indptr[i]; p < g.indptr[i+1]; p++ {
			rows = append(rows, i)
		}
	}

	return rows, append([]int(nil), g.indices...), append([]float64(nil), g.weights...)
}

// symmetrized returns (A + Aᵀ)/2. Input is already validated and merged.
func (g *Graph) symmetrized() *Graph {
	rows, cols, vals := g.Triplets()
	nnz := len(rows)
	allR := make([]int, 0, 2*nnz)
	allC := make([]int, 0, 2*nnz)
	allV := make([]float64, 0, 2*nnz)
	for k := 0; k < nnz; k++ {
		half := vals[k] / 2
		allR = append(allR, rows[k], cols[k])
		allC = append(allC, cols[k], rows[k])
		allV = append(allV, half, half)
	}
	// Inputs were validated above; a failure here is a programmer error.
	out, err := FromTriplets(g.n, allR, allC, allV)
	if err != nil {
		panic(fmt.Sprintf("cellgraph: %s: %v", opSymmetrize, err))
	}

	return out
}

type rowSorter struct {
	cols []int
	vals []float64
}

func (s rowSorter) Len() int           { return len(s.cols) }
func (s rowSorter) Less(a, b int) bool { return s.cols[a] < s.cols[b] }
func (s rowSorter) Swap(a, b int) {
	s.cols[a], s.cols[b] = s.cols[b], s.cols[a]
	s.vals[a], s.vals[b] = s.vals[b], s.vals[a]
}
