// SPDX-License-Identifier: MIT

// Package nampc derives covariate-adjusted per-sample principal components
// ("NAM-PCs") of the Neighborhood Abundance Matrix for downstream
// association testing.
//
// Sample identity is diffused across a cell-cell neighbor graph, batch and
// covariate effects are regressed out, the residual is decomposed, and the
// component counts passing cumulative variance thresholds are exported.
//
// Packages, in pipeline order:
//
//	container/  SQLite single-cell container (samplem, obs, obsp tables)
//	cellgraph/  sparse CSR neighbor graph, transition operator, components
//	samples/    typed per-sample metadata and cell → sample assignment
//	nam/        neighborhood abundance matrix and hop schedules
//	residual/   batch and covariate residualization
//	spectral/   Gram, SVD and randomized decompositions
//	rank/       threshold component selection and user overrides
//	export/     ks.csv, nampcs.csv and summary.yaml
//	pipeline/   the batch job and its YAML configuration
//	synth/      deterministic synthetic containers
//	errkind/    configuration, data shape and numerical error classes
//
// The command lives in cmd/nampc:
//
//	nampc simulate --out cells.db
//	nampc export --sc_object_path cells.db --res_folder out/ --corr_batch --covs age
package nampc
