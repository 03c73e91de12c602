// SPDX-License-Identifier: MIT

// Package spectral extracts the leading principal components of a
// residualized abundance matrix.
//
// Three routes produce the same components up to rounding:
//
//	Gram        eigendecomposition of R·Rᵀ (default)
//	SVD         thin SVD of R
//	Randomized  seeded range finder + small SVD, for very wide R
//
// Scores carry a deterministic sign: the entry of largest magnitude in
// every score column is positive, so repeated runs and different routes
// emit identical files.
package spectral
