// SPDX-License-Identifier: MIT

package nam

import (
	"fmt"
	"strconv"
	"strings"
)

// ScheduleKind selects how many times the transition operator is applied.
type ScheduleKind int

const (
	// KindFixed applies P exactly k times.
	KindFixed ScheduleKind = iota
	// KindAverage averages Pʰ·S over a list of hop counts.
	KindAverage
	// KindAdaptive steps until the median neighborhood kurtosis stops dropping.
	KindAdaptive
)

// Adaptive defaults follow the stopping rule popularized by CNA.
const (
	DefaultFixedHops         = 3
	DefaultAdaptiveMaxHops   = 15
	DefaultAdaptiveMinHops   = 3
	DefaultAdaptiveTolerance = 3.0
)

// Schedule is a hop-count policy. Build it with Fixed, Average or Adaptive.
type Schedule struct {
	Kind      ScheduleKind
	Hops      []int   // Fixed: one entry; Average: every averaged hop count
	MaxHops   int     // Adaptive only
	MinHops   int     // Adaptive only
	Tolerance float64 // Adaptive only: minimum kurtosis drop to keep stepping
}

// Fixed applies P k times.
func Fixed(k int) Schedule {
	return Schedule{Kind: KindFixed, Hops: []int{k}}
}

// Average averages the diffused state over the given hop counts (0 = no diffusion).
func Average(hops ...int) Schedule {
	return Schedule{Kind: KindAverage, Hops: append([]int(nil), hops...)}
}

// Adaptive steps at most maxHops times and stops after at least minHops
// once the median excess kurtosis drops by less than tol in one step.
func Adaptive(maxHops, minHops int, tol float64) Schedule {
	return Schedule{Kind: KindAdaptive, MaxHops: maxHops, MinHops: minHops, Tolerance: tol}
}

// DefaultSchedule is Fixed(DefaultFixedHops).
func DefaultSchedule() Schedule { return Fixed(DefaultFixedHops) }

// Validate checks the schedule's parameters.
func (s Schedule) Validate() error {
	switch s.Kind {
	case KindFixed:
		if len(s.Hops) != 1 || s.Hops[0] < 0 {
			return fmt.Errorf("fixed schedule needs one hop count ≥ 0, got %v: %w", s.Hops, ErrBadSchedule)
		}
	case KindAverage:
		if len(s.Hops) == 0 {
			return fmt.Errorf("average schedule needs at least one hop count: %w", ErrBadSchedule)
		}
		for _, h := range s.Hops {
			if h < 0 {
				return fmt.Errorf("average schedule hop %d < 0: %w", h, ErrBadSchedule)
			}
		}
	case KindAdaptive:
		if s.MaxHops < 1 || s.MinHops < 1 || s.MinHops > s.MaxHops {
			return fmt.Errorf("adaptive schedule needs 1 ≤ min(%d) ≤ max(%d): %w", s.MinHops, s.MaxHops, ErrBadSchedule)
		}
		if !(s.Tolerance >= 0) {
			return fmt.Errorf("adaptive tolerance %g < 0: %w", s.Tolerance, ErrBadSchedule)
		}
	default:
		return fmt.Errorf("unknown schedule kind %d: %w", int(s.Kind), ErrBadSchedule)
	}

	return nil
}

// maxHops is the number of operator applications the schedule may need.
func (s Schedule) maxHops() int {
	switch s.Kind {
	case KindAdaptive:
		return s.MaxHops
	default:
		m := 0
		for _, h := range s.Hops {
			m = max(m, h)
		}
		return m
	}
}

// String implements fmt.Stringer ("fixed(3)", "average(1,2,3)", "adaptive(15,3,3)").
func (s Schedule) String() string {
	switch s.Kind {
	case KindFixed:
		return "fixed(" + joinInts(s.Hops) + ")"
	case KindAverage:
		return "average(" + joinInts(s.Hops) + ")"
	case KindAdaptive:
		return fmt.Sprintf("adaptive(%d,%d,%g)", s.MaxHops, s.MinHops, s.Tolerance)
	default:
		return fmt.Sprintf("Schedule(%d)", int(s.Kind))
	}
}

// ParseSchedule builds a schedule from its CLI name.
// hops is used by "fixed" (first entry) and "average".
func ParseSchedule(name string, hops []int) (Schedule, error) {
	var s Schedule
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fixed":
		s = DefaultSchedule()
		if len(hops) > 0 {
			s = Fixed(hops[0])
		}
	case "average":
		s = Average(hops...)
	case "adaptive":
		s = Adaptive(DefaultAdaptiveMaxHops, DefaultAdaptiveMinHops, DefaultAdaptiveTolerance)
		if len(hops) > 0 {
			s.MaxHops = hops[0]
			s.MinHops = min(s.MinHops, s.MaxHops)
		}
	default:
		return Schedule{}, fmt.Errorf("schedule %q: %w", name, ErrBadSchedule)
	}

	return s, s.Validate()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}

	return strings.Join(parts, ",")
}
