// SPDX-License-Identifier: MIT
// Package: synth
//
// config.go: generator knobs and deterministic defaults.
//
// Deterministic defaults:
//   • seed            = 0
//   • samples         = 20, cells per sample = 50
//   • batches         = 2  (batch label "b<i mod batches>")
//   • clusters        = 3  (cluster 0 carries the planted signal)
//   • neighbors       = 15 (kNN graph, Gaussian kernel)
//   • signal          = 2.0
//   • batchShift      = 0.3 (embedding offset per batch)
//   • idColumn        = "id", prefix = "" (default obsp keys)

package synth

import (
	"math"
	"strconv"
)

// Default knob values.
const (
	DefaultSeed           = uint64(0)
	DefaultSamples        = 20
	DefaultCellsPerSample = 50
	DefaultBatches        = 2
	DefaultClusters       = 3
	DefaultNeighbors      = 15
	DefaultSignal         = 2.0
	DefaultBatchShift     = 0.3
	DefaultIDColumn       = "id"

	// PhenotypeColumn holds the planted per-sample signal in the metadata table.
	PhenotypeColumn = "phenotype"

	clusterRadius = 5.0
	minAbundance  = 0.05
)

const (
	panicSignalInvalid = "synth: WithSignal: strength must be finite"
	panicShiftInvalid  = "synth: WithBatchShift: shift must be finite"
)

type config struct {
	seed           uint64
	samples        int
	cellsPerSample int
	batches        int
	clusters       int
	neighbors      int
	signal         float64
	batchShift     float64
	idColumn       string
	prefix         string
	sampleID       func(int) string
	cellID         func(int) string
}

// Option configures Generate; later options override earlier ones.
type Option func(*config)

func newConfig(opts ...Option) config {
	cfg := config{
		seed:           DefaultSeed,
		samples:        DefaultSamples,
		cellsPerSample: DefaultCellsPerSample,
		batches:        DefaultBatches,
		clusters:       DefaultClusters,
		neighbors:      DefaultNeighbors,
		signal:         DefaultSignal,
		batchShift:     DefaultBatchShift,
		idColumn:       DefaultIDColumn,
		sampleID:       prefixedID("s"),
		cellID:         prefixedID("c"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.idColumn == "" {
		cfg.idColumn = DefaultIDColumn
	}

	return cfg
}

func prefixedID(p string) func(int) string {
	return func(i int) string { return p + strconv.Itoa(i) }
}

// WithSeed sets the PCG seed; equal seeds give identical datasets.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithSamples sets the number of samples (validated by Generate).
func WithSamples(n int) Option {
	return func(c *config) { c.samples = n }
}

// WithCellsPerSample sets the number of cells drawn for every sample.
func WithCellsPerSample(n int) Option {
	return func(c *config) { c.cellsPerSample = n }
}

// WithBatches sets the number of batches samples are dealt into round-robin.
func WithBatches(n int) Option {
	return func(c *config) { c.batches = n }
}

// WithClusters sets the number of cell populations.
func WithClusters(n int) Option {
	return func(c *config) { c.clusters = n }
}

// WithNeighbors sets k of the kNN graph.
func WithNeighbors(k int) Option {
	return func(c *config) { c.neighbors = k }
}

// WithSignal sets how strongly the phenotype drives cluster-0 abundance.
func WithSignal(strength float64) Option {
	if math.IsNaN(strength) || math.IsInf(strength, 0) {
		panic(panicSignalInvalid)
	}

	return func(c *config) { c.signal = strength }
}

// WithBatchShift sets the embedding offset added per batch index.
func WithBatchShift(shift float64) Option {
	if math.IsNaN(shift) || math.IsInf(shift, 0) {
		panic(panicShiftInvalid)
	}

	return func(c *config) { c.batchShift = shift }
}

// WithIDColumn names the sample-id column.
func WithIDColumn(name string) Option {
	return func(c *config) { c.idColumn = name }
}

// WithPrefix stores the graphs under <prefix>_connectivities / <prefix>_distances.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}
