// SPDX-License-Identifier: MIT
// Package spectral: sentinel error set.

package spectral

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "spectral"

var (
	// ErrNilMatrix is returned for a nil or empty input.
	ErrNilMatrix = errkind.Define(pkgName, "matrix is nil or empty", errkind.ErrConfiguration)

	// ErrBadComponents is returned when the requested component count is < 1.
	ErrBadComponents = errkind.Define(pkgName, "component count must be ≥ 1", errkind.ErrConfiguration)

	// ErrUnknownMethod is returned for an unsupported decomposition method.
	ErrUnknownMethod = errkind.Define(pkgName, "unknown decomposition method", errkind.ErrConfiguration)

	// ErrNoConvergence is returned when the eigen/SVD routine does not converge.
	ErrNoConvergence = errkind.Define(pkgName, "decomposition did not converge", errkind.ErrNumerical)

	// ErrZeroVariance is returned when the input carries no variance at all.
	ErrZeroVariance = errkind.Define(pkgName, "matrix has zero total variance", errkind.ErrNumerical)

	// ErrNonFinite is returned when the input contains NaN or ±Inf.
	ErrNonFinite = errkind.Define(pkgName, "matrix contains non-finite values", errkind.ErrNumerical)
)
