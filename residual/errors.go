// SPDX-License-Identifier: MIT
// Package residual: sentinel error set.

package residual

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "residual"

var (
	// ErrNilMatrix is returned when the abundance matrix is nil or empty.
	ErrNilMatrix = errkind.Define(pkgName, "abundance matrix is nil or empty", errkind.ErrConfiguration)

	// ErrBatchLength is returned when batch codes are not one per sample.
	ErrBatchLength = errkind.Define(pkgName, "batch codes do not cover every sample", errkind.ErrDataShape)

	// ErrBadBatchCode is returned for a negative batch code.
	ErrBadBatchCode = errkind.Define(pkgName, "batch code must be ≥ 0", errkind.ErrConfiguration)

	// ErrCovariateRows is returned when the covariate table does not have one row per sample.
	ErrCovariateRows = errkind.Define(pkgName, "covariate rows do not match samples", errkind.ErrConfiguration)

	// ErrNonFinite is returned when a covariate value is NaN or ±Inf.
	ErrNonFinite = errkind.Define(pkgName, "non-finite covariate value", errkind.ErrNumerical)

	// ErrSingularDesign is returned when the centered design matrix is rank deficient.
	ErrSingularDesign = errkind.Define(pkgName, "singular design matrix", errkind.ErrNumerical)

	// ErrNoResidualDOF is returned when the model consumes every degree of freedom.
	ErrNoResidualDOF = errkind.Define(pkgName, "no residual degrees of freedom left", errkind.ErrDataShape)
)
