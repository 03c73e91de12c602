// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"strings"
)

// Method selects the factorization route.
type Method int

const (
	// Gram eigendecomposes R·Rᵀ (samples × samples); cheapest when samples ≪ neighborhoods.
	Gram Method = iota
	// SVD runs a thin singular value decomposition of R.
	SVD
	// Randomized runs a seeded randomized range finder followed by a small SVD.
	Randomized
)

// Defaults.
const (
	DefaultMethod          = Gram
	DefaultSeed            = uint64(0)
	DefaultOversampling    = 10
	DefaultPowerIterations = 2
)

const (
	panicOversamplingInvalid = "spectral: WithOversampling: p must be ≥ 0"
	panicPowerIterInvalid    = "spectral: WithPowerIterations: q must be ≥ 0"
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Gram:
		return "gram"
	case SVD:
		return "svd"
	case Randomized:
		return "randomized"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "gram", "svd" or "randomized" (case-insensitive; "" = default).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "", "gram":
		return Gram, nil
	case "svd":
		return SVD, nil
	case "randomized":
		return Randomized, nil
	default:
		return 0, fmt.Errorf("method %q: %w", s, ErrUnknownMethod)
	}
}

// Option configures Decompose.
type Option func(*options)

type options struct {
	k            int // 0 = all
	method       Method
	seed         uint64
	oversampling int
	powerIter    int
}

func defaultOptions() options {
	return options{
		method:       DefaultMethod,
		seed:         DefaultSeed,
		oversampling: DefaultOversampling,
		powerIter:    DefaultPowerIterations,
	}
}

// WithComponents limits the result to the k leading components.
// k is clamped to min(rows, cols); k < 1 is rejected by Decompose.
func WithComponents(k int) Option {
	return func(o *options) { o.k = k }
}

// WithMethod selects the factorization route.
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithSeed seeds the randomized method. Ignored by exact methods.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithOversampling sets extra sketch columns for the randomized method.
func WithOversampling(p int) Option {
	if p < 0 {
		panic(panicOversamplingInvalid)
	}

	return func(o *options) { o.oversampling = p }
}

// WithPowerIterations sets subspace iterations for the randomized method.
func WithPowerIterations(q int) Option {
	if q < 0 {
		panic(panicPowerIterInvalid)
	}

	return func(o *options) { o.powerIter = q }
}
