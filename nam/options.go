// SPDX-License-Identifier: MIT

package nam

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/nampc/cellgraph"
)

// DefaultTolerance bounds |Σ column − 1| accepted by the stochastic check.
const DefaultTolerance = 1e-8

const panicToleranceInvalid = "nam: WithTolerance: tol must be finite and > 0"

// Option configures Build.
type Option func(*options)

type options struct {
	schedule   Schedule
	selfWeight float64
	transition []cellgraph.TransitionOption
	tol        float64
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		schedule: DefaultSchedule(),
		tol:      DefaultTolerance,
	}
}

// WithSchedule sets the hop schedule (default Fixed(3)).
func WithSchedule(s Schedule) Option {
	return func(o *options) { o.schedule = s }
}

// WithSelfWeight adds w to each cell's own edge before normalizing (lazy walk).
// Panics when w is negative or not finite.
func WithSelfWeight(w float64) Option {
	opt := cellgraph.WithSelfWeight(w)

	return func(o *options) {
		o.selfWeight = w
		o.transition = []cellgraph.TransitionOption{opt}
	}
}

// WithTolerance sets the column-sum tolerance of the output check.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *options) { o.tol = tol }
}

// WithLogger routes progress records to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
