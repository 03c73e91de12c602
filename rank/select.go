// SPDX-License-Identifier: MIT

// Package rank decides how many NAM-PCs to keep.
//
// Select applies the cumulative variance-explained rule: the cumulative sum
// is rounded half-to-even to a fixed number of decimals, and for every
// threshold t the count is the number of leading components whose rounded
// cumulative value is strictly below t. When even the first component
// already reaches t the count would be 0; Select returns 1 instead and logs
// the substitution at WARN, so a caller never exports an empty table.
//
// Override validates a user-supplied list of counts against the number of
// components available.
package rank

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultThresholds are the cumulative variance cut-offs used when none are given.
var DefaultThresholds = []float64{0.5, 0.8}

// DefaultPrecision is the number of decimals the cumulative sum is rounded to.
const DefaultPrecision = 2

const panicPrecisionInvalid = "rank: WithPrecision: digits must be in [0, 15]"

const (
	opSelect   = "Select"
	opOverride = "Override"
)

// Option configures Select.
type Option func(*options)

type options struct {
	thresholds []float64
	precision  int
	logger     *slog.Logger
}

// WithThresholds replaces DefaultThresholds. Values are validated by Select.
func WithThresholds(ts ...float64) Option {
	return func(o *options) { o.thresholds = append([]float64(nil), ts...) }
}

// WithPrecision sets the number of decimals the cumulative sum is rounded to.
func WithPrecision(digits int) Option {
	if digits < 0 || digits > 15 {
		panic(panicPrecisionInvalid)
	}

	return func(o *options) { o.precision = digits }
}

// WithLogger routes the fallback warning to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Cumulative returns the running sum of varexp rounded half-to-even to digits decimals.
func Cumulative(varexp []float64, digits int) []float64 {
	cum := make([]float64, len(varexp))
	floats.CumSum(cum, varexp)
	scale := math.Pow(10, float64(digits))
	for i, v := range cum {
		cum[i] = math.RoundToEven(v*scale) / scale
	}

	return cum
}

// Select returns one component count per threshold, in threshold order.
func Select(varexp []float64, opts ...Option) ([]int, error) {
	o := options{thresholds: DefaultThresholds, precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	if len(varexp) == 0 {
		return nil, fmt.Errorf("%s: %w", opSelect, ErrNoComponents)
	}
	for i, v := range varexp {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%s: component %d=%g: %w", opSelect, i+1, v, ErrBadVariance)
		}
	}
	if len(o.thresholds) == 0 {
		return nil, fmt.Errorf("%s: no thresholds: %w", opSelect, ErrBadThreshold)
	}
	for _, t := range o.thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return nil, fmt.Errorf("%s: threshold %g: %w", opSelect, t, ErrBadThreshold)
		}
	}

	cum := Cumulative(varexp, o.precision)
	ks := make([]int, len(o.thresholds))
	for ti, t := range o.thresholds {
		count := 0
		for _, c := range cum {
			if c >= t {
				break
			}
			count++
		}
		if count == 0 {
			logger.Warn("first component already reaches threshold; keeping 1",
				"threshold", t, "cumulative", cum[0])
			count = 1
		}
		ks[ti] = count
	}

	return ks, nil
}

// Override checks that every requested count is in [1, available] and returns a copy.
func Override(ks []int, available int) ([]int, error) {
	if len(ks) == 0 {
		return nil, fmt.Errorf("%s: %w", opOverride, ErrEmptyOverride)
	}
	for i, k := range ks {
		if k < 1 || k > available {
			return nil, fmt.Errorf("%s: entry %d is %d, available %d: %w", opOverride, i+1, k, available, ErrOverrideRange)
		}
	}

	return append([]int(nil), ks...), nil
}
