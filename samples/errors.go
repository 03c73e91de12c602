// SPDX-License-Identifier: MIT
// Package samples: sentinel error set.

package samples

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "samples"

var (
	// ErrEmptyIDColumn is returned when the sample-id column name is empty.
	ErrEmptyIDColumn = errkind.Define(pkgName, "sample id column name is empty", errkind.ErrConfiguration)

	// ErrNoSamples is returned for a table with zero rows.
	ErrNoSamples = errkind.Define(pkgName, "table has no samples", errkind.ErrDataShape)

	// ErrDuplicateSample is returned when two rows share a sample id.
	ErrDuplicateSample = errkind.Define(pkgName, "duplicate sample id", errkind.ErrConfiguration)

	// ErrEmptySampleID is returned when a sample id is the empty string.
	ErrEmptySampleID = errkind.Define(pkgName, "empty sample id", errkind.ErrConfiguration)

	// ErrColumnExists is returned when a column name is declared twice.
	ErrColumnExists = errkind.Define(pkgName, "column already declared", errkind.ErrConfiguration)

	// ErrColumnLength is returned when a column does not have one value per sample.
	ErrColumnLength = errkind.Define(pkgName, "column length differs from sample count", errkind.ErrDataShape)

	// ErrUnknownColumn is returned when a requested covariate is not declared.
	ErrUnknownColumn = errkind.Define(pkgName, "unknown column", errkind.ErrConfiguration)

	// ErrNoBatchColumn is returned when batch correction is requested but the
	// table has no batch column.
	ErrNoBatchColumn = errkind.Define(pkgName, "batch column missing", errkind.ErrConfiguration)

	// ErrMissingValue is returned when a column used in a model has missing entries.
	ErrMissingValue = errkind.Define(pkgName, "missing value in model column", errkind.ErrConfiguration)

	// ErrConstantColumn is returned when a requested covariate takes a single
	// value (one categorical level or one number) across all samples.
	ErrConstantColumn = errkind.Define(pkgName, "covariate is constant across samples", errkind.ErrConfiguration)

	// ErrNonFinite is returned for NaN/±Inf in a numeric column value that is not marked missing.
	ErrNonFinite = errkind.Define(pkgName, "non-finite numeric value", errkind.ErrNumerical)

	// ErrUnknownSample is returned when a cell references a sample absent from the table.
	ErrUnknownSample = errkind.Define(pkgName, "cell references unknown sample", errkind.ErrConfiguration)

	// ErrDuplicateCell is returned when two cells share an id.
	ErrDuplicateCell = errkind.Define(pkgName, "duplicate cell id", errkind.ErrConfiguration)

	// ErrLengthMismatch is returned when cell and sample-id slices differ in length.
	ErrLengthMismatch = errkind.Define(pkgName, "cell and sample slices differ in length", errkind.ErrDataShape)
)
