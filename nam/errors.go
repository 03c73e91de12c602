// SPDX-License-Identifier: MIT
// Package nam: sentinel error set.

package nam

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "nam"

var (
	// ErrNilInput is returned when the graph or assignment is nil.
	ErrNilInput = errkind.Define(pkgName, "graph or assignment is nil", errkind.ErrConfiguration)

	// ErrSizeMismatch is returned when graph nodes and assigned cells differ in count.
	ErrSizeMismatch = errkind.Define(pkgName, "graph and cell assignment sizes differ", errkind.ErrDataShape)

	// ErrBadSchedule is returned for an invalid hop schedule.
	ErrBadSchedule = errkind.Define(pkgName, "invalid hop schedule", errkind.ErrConfiguration)

	// ErrNotStochastic is returned when a NAM column fails the probability
	// invariant (negative entry or sum ≠ 1 beyond tolerance).
	ErrNotStochastic = errkind.Define(pkgName, "neighborhood column is not a probability distribution", errkind.ErrNumerical)
)
