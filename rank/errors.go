// SPDX-License-Identifier: MIT

package rank

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "rank"

var (
	// ErrNoComponents is returned when Select receives an empty variance vector.
	ErrNoComponents = errkind.Define(pkgName, "no components to select from", errkind.ErrDataShape)

	// ErrBadVariance is returned for a negative or non-finite variance entry.
	ErrBadVariance = errkind.Define(pkgName, "variance explained must be finite and ≥ 0", errkind.ErrNumerical)

	// ErrBadThreshold is returned for a threshold that is not finite and > 0.
	ErrBadThreshold = errkind.Define(pkgName, "threshold must be finite and > 0", errkind.ErrConfiguration)

	// ErrEmptyOverride is returned when an override list has no entries.
	ErrEmptyOverride = errkind.Define(pkgName, "override list is empty", errkind.ErrDataShape)

	// ErrOverrideRange is returned when an override value is outside [1, available].
	ErrOverrideRange = errkind.Define(pkgName, "override value outside available components", errkind.ErrDataShape)
)
