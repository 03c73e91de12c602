// SPDX-License-Identifier: MIT

package export

import "github.com/katalvlaran/nampc/errkind"

const pkgName = "export"

var (
	// ErrNoKs is returned when there is no component count to export.
	ErrNoKs = errkind.Define(pkgName, "no component counts", errkind.ErrDataShape)

	// ErrKsRange is returned when a count is < 1 or exceeds the available score columns.
	ErrKsRange = errkind.Define(pkgName, "component count outside available scores", errkind.ErrDataShape)

	// ErrIDCount is returned when sample ids and score rows disagree.
	ErrIDCount = errkind.Define(pkgName, "sample id count differs from score rows", errkind.ErrDataShape)

	// ErrNilScores is returned when no score matrix is given.
	ErrNilScores = errkind.Define(pkgName, "score matrix is nil", errkind.ErrConfiguration)

	// ErrParseKs is returned when a ks file line is not a number.
	ErrParseKs = errkind.Define(pkgName, "ks file entry is not a number", errkind.ErrConfiguration)

	// ErrReadKs is returned when the ks file cannot be opened or read.
	ErrReadKs = errkind.Define(pkgName, "cannot read ks file", errkind.ErrConfiguration)

	// ErrWrite is returned when an output file cannot be written.
	ErrWrite = errkind.Define(pkgName, "cannot write output", errkind.ErrConfiguration)
)
