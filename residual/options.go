// SPDX-License-Identifier: MIT

package residual

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultRankTolerance is the relative threshold on |R_jj| / max|R_ii| of the
// design's QR factor below which the design is declared singular.
const DefaultRankTolerance = 1e-10

const panicRankTolInvalid = "residual: WithRankTolerance: tol must be finite and > 0"

// Option configures Residualize.
type Option func(*options)

type options struct {
	batches     []int
	covariates  *mat.Dense
	standardize bool
	rankTol     float64
}

func defaultOptions() options {
	return options{rankTol: DefaultRankTolerance}
}

// WithBatches requests batch fixed-effect removal; codes[i] is the batch of sample i.
func WithBatches(codes []int) Option {
	return func(o *options) { o.batches = codes }
}

// WithCovariates requests OLS removal of the columns of X (samples × p).
// A nil X is ignored.
func WithCovariates(X *mat.Dense) Option {
	return func(o *options) { o.covariates = X }
}

// WithStandardize divides every residual column by its sample standard deviation.
func WithStandardize() Option {
	return func(o *options) { o.standardize = true }
}

// WithRankTolerance overrides DefaultRankTolerance.
func WithRankTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicRankTolInvalid)
	}

	return func(o *options) { o.rankTol = tol }
}
