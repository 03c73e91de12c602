// SPDX-License-Identifier: MIT

package container

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "container"

var (
	// ErrNotFound is returned when the container file does not exist.
	ErrNotFound = errkind.Define(pkgName, "container file not found", errkind.ErrConfiguration)

	// ErrExists is returned by Create when the target file already exists.
	ErrExists = errkind.Define(pkgName, "container file already exists", errkind.ErrConfiguration)

	// ErrMissingTable is returned when one of samplem, obs or obsp is absent.
	ErrMissingTable = errkind.Define(pkgName, "required table missing", errkind.ErrConfiguration)

	// ErrNoSampleIDColumn is returned when the sample-id column is absent from samplem or obs.
	ErrNoSampleIDColumn = errkind.Define(pkgName, "sample id column missing", errkind.ErrConfiguration)

	// ErrMissingGraph is returned when the requested obsp key has no entries.
	ErrMissingGraph = errkind.Define(pkgName, "neighbor graph key missing", errkind.ErrConfiguration)

	// ErrUnsupportedValue is returned for BLOB cells in metadata tables.
	ErrUnsupportedValue = errkind.Define(pkgName, "unsupported stored value", errkind.ErrConfiguration)

	// ErrNilDataset is returned by Create for an incomplete dataset.
	ErrNilDataset = errkind.Define(pkgName, "dataset is nil or incomplete", errkind.ErrConfiguration)

	// ErrStorage wraps driver failures (open, query, scan, commit).
	ErrStorage = errkind.Define(pkgName, "storage failure", errkind.ErrConfiguration)
)
