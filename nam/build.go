// SPDX-License-Identifier: MIT
// Package: nam
//
// Purpose:
//   - Diffuse per-sample cell membership over the neighbor graph and return
//     the samples × neighborhoods abundance matrix.
//
// Algorithm:
//   - S₀ (cells × samples) holds one-hot sample indicators per cell.
//   - S_{h+1} = P·S_h with P the row-stochastic transition of the graph.
//   - Row i of the selected S_h is the sample mix around cell i; its transpose
//     is NAM column i. Because P is row-stochastic and S₀ rows are one-hot,
//     every such row stays a probability vector.
//
// Memory:
//   - Two or three cells × samples buffers; P is applied sparsely.

package nam

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/samples"
)

const opBuild = "Build"

// NAM is the Neighborhood Abundance Matrix: rows are samples, columns are
// cell-centered neighborhoods in cell order.
type NAM struct {
	Matrix     *mat.Dense
	Schedule   Schedule
	Hops       int     // largest hop count actually applied
	SelfWeight float64 // diagonal weight added before normalizing
	Isolated   int     // cells that kept their own one-hot column
}

// Samples returns the number of rows.
func (n *NAM) Samples() int {
	r, _ := n.Matrix.Dims()
	return r
}

// Neighborhoods returns the number of columns.
func (n *NAM) Neighborhoods() int {
	_, c := n.Matrix.Dims()
	return c
}

// Build computes the NAM of graph g under assignment a.
//
// Implementation:
//   - Stage 1: validate inputs and schedule.
//   - Stage 2: build the transition operator and the indicator block S₀.
//   - Stage 3: step P according to the schedule (fixed, averaged, adaptive).
//   - Stage 4: transpose into samples × cells and check every column is a
//     probability distribution.
//
// Errors:
//   - ErrNilInput, ErrSizeMismatch, ErrBadSchedule, ErrNotStochastic.
func Build(g *cellgraph.Graph, a *samples.Assignment, opts ...Option) (*NAM, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Stage 1: validate.
	if g == nil || a == nil {
		return nil, fmt.Errorf("%s: %w", opBuild, ErrNilInput)
	}
	if g.N() != a.Len() {
		return nil, fmt.Errorf("%s: graph has %d nodes, assignment %d cells: %w",
			opBuild, g.N(), a.Len(), ErrSizeMismatch)
	}
	if err := o.schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	// Stage 2: operator and indicators.
	P, err := cellgraph.NewTransition(g, o.transition...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	cells, nSamples := a.Len(), a.NSamples()
	cur := mat.NewDense(cells, nSamples, nil)
	for i := 0; i < cells; i++ {
		cur.Set(i, a.Sample(i), 1)
	}
	if P.IsolatedCount() > 0 {
		logger.Warn("isolated cells keep their own sample", "count", P.IsolatedCount())
	}

	// Stage 3: diffuse.
	state, hops, err := diffuse(P, cur, o.schedule, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	// Stage 4: transpose and check.
	out := mat.DenseCopyOf(state.T())
	if err := checkStochastic(out, o.tol); err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	logger.Debug("built NAM", "samples", nSamples, "neighborhoods", cells,
		"schedule", o.schedule.String(), "hops", hops)

	return &NAM{
		Matrix:     out,
		Schedule:   o.schedule,
		Hops:       hops,
		SelfWeight: o.selfWeight,
		Isolated:   P.IsolatedCount(),
	}, nil
}

// diffuse steps P over s0 following sched and returns the selected state.
func diffuse(P *cellgraph.Transition, s0 *mat.Dense, sched Schedule, logger *slog.Logger) (*mat.Dense, int, error) {
	r, c := s0.Dims()
	cur, next := s0, mat.NewDense(r, c, nil)
	step := func() error {
		if err := P.Apply(next, cur); err != nil {
			return err
		}
		cur, next = next, cur
		return nil
	}

	switch sched.Kind {
	case KindFixed:
		for h := 0; h < sched.Hops[0]; h++ {
			if err := step(); err != nil {
				return nil, 0, err
			}
		}
		return cur, sched.Hops[0], nil

	case KindAverage:
		want := make(map[int]int, len(sched.Hops))
		for _, h := range sched.Hops {
			want[h]++
		}
		acc := mat.NewDense(r, c, nil)
		last := sched.maxHops()
		for h := 0; ; h++ {
			if k := want[h]; k > 0 {
				for ; k > 0; k-- {
					acc.Add(acc, cur)
				}
			}
			if h == last {
				break
			}
			if err := step(); err != nil {
				return nil, 0, err
			}
		}
		acc.Scale(1/float64(len(sched.Hops)), acc)
		return acc, last, nil

	default: // KindAdaptive
		prev := math.Inf(1)
		h := 0
		for h < sched.MaxHops {
			if err := step(); err != nil {
				return nil, 0, err
			}
			h++
			med := medianKurtosis(cur)
			logger.Debug("adaptive diffusion step", "hop", h, "median_kurtosis", med)
			if h >= sched.MinHops && (math.IsNaN(med) || prev-med < sched.Tolerance) {
				break
			}
			prev = med
		}
		return cur, h, nil
	}
}

// medianKurtosis returns the median over cells of the excess kurtosis of the
// cell's sample distribution, skipping undefined values. NaN when none is
// defined. An even count averages the two middle values.
func medianKurtosis(s *mat.Dense) float64 {
	r, _ := s.Dims()
	ks := make([]float64, 0, r)
	for i := 0; i < r; i++ {
		k := exKurtosis(s.RawRowView(i))
		if !math.IsNaN(k) && !math.IsInf(k, 0) {
			ks = append(ks, k)
		}
	}
	if len(ks) == 0 {
		return math.NaN()
	}
	sort.Float64s(ks)
	mid := len(ks) / 2
	if len(ks)%2 == 1 {
		return ks[mid]
	}

	return (ks[mid-1] + ks[mid]) / 2
}

// exKurtosis is the moment estimator m₄/m₂² − 3 without small-sample
// correction (stat.ExKurtosis applies one). NaN for a constant row.
func exKurtosis(x []float64) float64 {
	mean := stat.Mean(x, nil)
	var m2, m4 float64
	for _, v := range x {
		d := (v - mean) * (v - mean)
		m2 += d
		m4 += d * d
	}
	n := float64(len(x))
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return math.NaN()
	}

	return m4/(m2*m2) - 3
}

// checkStochastic verifies each column of m is non-negative and sums to 1 ± tol.
func checkStochastic(m *mat.Dense, tol float64) error {
	r, c := m.Dims()
	sums := make([]float64, c)
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j, v := range row {
			if v < 0 || math.IsNaN(v) {
				return fmt.Errorf("entry (%d,%d)=%g: %w", i, j, v, ErrNotStochastic)
			}
			sums[j] += v
		}
	}
	for j, s := range sums {
		if math.Abs(s-1) > tol {
			return fmt.Errorf("column %d sums to %g: %w", j, s, ErrNotStochastic)
		}
	}

	return nil
}
