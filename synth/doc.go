// SPDX-License-Identifier: MIT

// Package synth generates seeded single-cell datasets with a planted
// sample-level signal: fixtures for tests and the `nampc simulate` command.
//
// The phenotype that drives cluster-0 abundance is stored as the numeric
// metadata column PhenotypeColumn, so a run can check that the leading
// NAM-PC recovers it.
package synth
