// SPDX-License-Identifier: MIT

// Package errkind declares the three failure classes every NAM-PC stage
// reports through.
//
// Each package keeps its own precise sentinels (samples.ErrUnknownColumn,
// residual.ErrSingularDesign, ...) and builds them on top of one of the
// classes below, so callers may match either the precise condition or the
// whole class with errors.Is:
//
//	errors.Is(err, samples.ErrUnknownColumn)  // precise
//	errors.Is(err, errkind.ErrConfiguration)  // class
//
// A run never recovers from any of them: the job aborts and writes nothing.
package errkind

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a violated precondition on the inputs the user
	// chose: missing sample-id column, unknown covariate, absent batch column,
	// missing graph keys for a custom prefix.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataShape marks inputs whose sizes disagree: graph vs. cell count,
	// covariate rows vs. samples, ks override above available components.
	ErrDataShape = errors.New("data shape error")

	// ErrNumerical marks a numeric routine that could not deliver its
	// guarantee: singular design, non-converged decomposition, non-finite values.
	ErrNumerical = errors.New("numerical error")
)

// Define builds a package sentinel "pkg: msg" classified under kind.
// Intended for package-level var blocks only.
func Define(pkg, msg string, kind error) error {
	return fmt.Errorf("%s: %s: %w", pkg, msg, kind)
}

// Kind reports which class err belongs to, or nil when it is unclassified.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConfiguration):
		return ErrConfiguration
	case errors.Is(err, ErrDataShape):
		return ErrDataShape
	case errors.Is(err, ErrNumerical):
		return ErrNumerical
	default:
		return nil
	}
}
