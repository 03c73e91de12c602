// SPDX-License-Identifier: MIT

package pipeline

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "pipeline"

var (
	// ErrMissingInput is returned when no container path is configured.
	ErrMissingInput = errkind.Define(pkgName, "input container path is required", errkind.ErrConfiguration)

	// ErrMissingOutput is returned when no result folder is configured.
	ErrMissingOutput = errkind.Define(pkgName, "result folder is required", errkind.ErrConfiguration)

	// ErrConfigFile is returned when the YAML config cannot be read or parsed.
	ErrConfigFile = errkind.Define(pkgName, "invalid config file", errkind.ErrConfiguration)

	// ErrBadSelfWeight is returned for a negative or non-finite self weight.
	ErrBadSelfWeight = errkind.Define(pkgName, "self weight must be finite and ≥ 0", errkind.ErrConfiguration)

	// ErrNilDataset is returned when RunDataset receives an incomplete dataset.
	ErrNilDataset = errkind.Define(pkgName, "dataset is nil or incomplete", errkind.ErrConfiguration)

	// ErrNoComponents is returned when residualization leaves nothing to decompose.
	ErrNoComponents = errkind.Define(pkgName, "no components available", errkind.ErrDataShape)
)
