// SPDX-License-Identifier: MIT

package synth

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "synth"

var (
	// ErrTooFewSamples is returned for fewer than 2 samples.
	ErrTooFewSamples = errkind.Define(pkgName, "need at least 2 samples", errkind.ErrConfiguration)

	// ErrTooFewCells is returned for fewer than 1 cell per sample.
	ErrTooFewCells = errkind.Define(pkgName, "need at least 1 cell per sample", errkind.ErrConfiguration)

	// ErrBadBatches is returned when batches is < 1 or exceeds the sample count.
	ErrBadBatches = errkind.Define(pkgName, "batch count must be in [1, samples]", errkind.ErrConfiguration)

	// ErrBadClusters is returned for fewer than 1 cluster.
	ErrBadClusters = errkind.Define(pkgName, "need at least 1 cluster", errkind.ErrConfiguration)

	// ErrBadNeighbors is returned when k is < 1 or not below the cell count.
	ErrBadNeighbors = errkind.Define(pkgName, "neighbor count must be in [1, cells)", errkind.ErrConfiguration)
)
