// SPDX-License-Identifier: MIT
// Package: synth
//
// generate.go: Generate(opts...) builds a complete synthetic container.
//
// Model:
//   - Every sample s draws a phenotype z_s ~ N(0,1).
//   - Cells are dealt to clusters with weights w_0 = max(0.05, 1 + signal·z_s)
//     and w_c = 1 otherwise, so cluster-0 abundance tracks the phenotype.
//   - A cell sits at its cluster centre (on a circle of radius 5) plus
//     N(0, I₂) noise plus a per-batch x offset.
//   - Connectivities: kNN with a Gaussian kernel exp(−d²/σ_i²), σ_i the
//     distance to the k-th neighbor, symmetrized as (A + Aᵀ)/2.
//   - Distances: the raw directed kNN distances.
//
// Determinism:
//   - One PCG stream; samples i asc, then cells in sample order.
//
// Complexity:
//   - O(C²·k) for the brute-force kNN over C cells.

package synth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/container"
	"github.com/katalvlaran/nampc/samples"
)

const methodGenerate = "Generate"

// Generate returns a seeded synthetic dataset.
//
// Errors:
//   - ErrTooFewSamples, ErrTooFewCells, ErrBadBatches, ErrBadClusters, ErrBadNeighbors.
func Generate(opts ...Option) (*container.Dataset, error) {
	cfg := newConfig(opts...)

	// 1) Validate.
	nCells := cfg.samples * cfg.cellsPerSample
	switch {
	case cfg.samples < 2:
		return nil, fmt.Errorf("%s: samples=%d: %w", methodGenerate, cfg.samples, ErrTooFewSamples)
	case cfg.cellsPerSample < 1:
		return nil, fmt.Errorf("%s: cells=%d: %w", methodGenerate, cfg.cellsPerSample, ErrTooFewCells)
	case cfg.batches < 1 || cfg.batches > cfg.samples:
		return nil, fmt.Errorf("%s: batches=%d: %w", methodGenerate, cfg.batches, ErrBadBatches)
	case cfg.clusters < 1:
		return nil, fmt.Errorf("%s: clusters=%d: %w", methodGenerate, cfg.clusters, ErrBadClusters)
	case cfg.neighbors < 1 || cfg.neighbors >= nCells:
		return nil, fmt.Errorf("%s: k=%d cells=%d: %w", methodGenerate, cfg.neighbors, nCells, ErrBadNeighbors)
	}
	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x5851f42d4c957f2d))

	// 2) Samples.
	ids := make([]string, cfg.samples)
	batch := make([]string, cfg.samples)
	pheno := make([]float64, cfg.samples)
	age := make([]float64, cfg.samples)
	sex := make([]string, cfg.samples)
	for s := range ids {
		ids[s] = cfg.sampleID(s)
		batch[s] = fmt.Sprintf("b%d", s%cfg.batches)
		pheno[s] = rng.NormFloat64()
		age[s] = math.Round(20 + 50*rng.Float64())
		sex[s] = "F"
		if rng.IntN(2) == 1 {
			sex[s] = "M"
		}
	}
	table, err := samples.NewTable(cfg.idColumn, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodGenerate, err)
	}
	for _, add := range []func() error{
		func() error { return table.AddCategorical(samples.BatchColumn, batch, nil) },
		func() error { return table.AddNumeric(PhenotypeColumn, pheno, nil) },
		func() error { return table.AddNumeric("age", age, nil) },
		func() error { return table.AddCategorical("sex", sex, nil) },
	} {
		if err := add(); err != nil {
			return nil, fmt.Errorf("%s: %w", methodGenerate, err)
		}
	}

	// 3) Cells.
	cells := make([]string, nCells)
	owner := make([]string, nCells)
	xs := make([]float64, nCells)
	ys := make([]float64, nCells)
	weights := make([]float64, cfg.clusters)
	for s := 0; s < cfg.samples; s++ {
		for c := range weights {
			weights[c] = 1
		}
		weights[0] = math.Max(minAbundance, 1+cfg.signal*pheno[s])
		shift := cfg.batchShift * float64(s%cfg.batches)
		for m := 0; m < cfg.cellsPerSample; m++ {
			i := s*cfg.cellsPerSample + m
			c := pick(rng, weights)
			angle := 2 * math.Pi * float64(c) / float64(cfg.clusters)
			cells[i] = cfg.cellID(i)
			owner[i] = ids[s]
			xs[i] = clusterRadius*math.Cos(angle) + rng.NormFloat64() + shift
			ys[i] = clusterRadius*math.Sin(angle) + rng.NormFloat64()
		}
	}
	assign, err := samples.NewAssignment(cells, owner, table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodGenerate, err)
	}

	// 4) Graphs.
	conn, dist, err := knn(xs, ys, cfg.neighbors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodGenerate, err)
	}

	return &container.Dataset{
		Table:      table,
		Assignment: assign,
		Graph:      conn,
		Distances:  dist,
		Prefix:     cfg.prefix,
	}, nil
}

// pick draws an index with probability proportional to w.
func pick(rng *rand.Rand, w []float64) int {
	var total float64
	for _, v := range w {
		total += v
	}
	u := rng.Float64() * total
	for i, v := range w {
		if u < v {
			return i
		}
		u -= v
	}

	return len(w) - 1
}

// knn builds the kernel connectivities and the raw distance graph.
func knn(xs, ys []float64, k int) (*cellgraph.Graph, *cellgraph.Graph, error) {
	n := len(xs)
	rows := make([]int, 0, n*k)
	cols := make([]int, 0, n*k)
	kern := make([]float64, 0, n*k)
	dists := make([]float64, 0, n*k)

	nbr := make([]int, k)
	d2 := make([]float64, k)
	for i := 0; i < n; i++ {
		// Bounded insertion keeps the k closest in ascending order; ties keep the lower index.
		size := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dx, dy := xs[i]-xs[j], ys[i]-ys[j]
			d := dx*dx + dy*dy
			if size == k && d >= d2[k-1] {
				continue
			}
			p := size
			if size < k {
				size++
			} else {
				p = k - 1
			}
			for p > 0 && d2[p-1] > d {
				d2[p], nbr[p] = d2[p-1], nbr[p-1]
				p--
			}
			d2[p], nbr[p] = d, j
		}

		sigma2 := d2[size-1]
		for q := 0; q < size; q++ {
			w := 1.0
			if sigma2 > 0 {
				w = math.Exp(-d2[q] / sigma2)
			}
			rows = append(rows, i)
			cols = append(cols, nbr[q])
			kern = append(kern, w)
			dists = append(dists, math.Sqrt(d2[q]))
		}
	}

	conn, err := cellgraph.FromTriplets(n, rows, cols, kern, cellgraph.WithSymmetrize())
	if err != nil {
		return nil, nil, err
	}
	dist, err := cellgraph.FromTriplets(n, rows, cols, dists)
	if err != nil {
		return nil, nil, err
	}

	return conn, dist, nil
}
