// SPDX-License-Identifier: MIT

package rank_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nampc/errkind"
	"github.com/katalvlaran/nampc/rank"
)

func TestSelect_Defaults(t *testing.T) {
	t.Parallel()

	varexp := []float64{0.3, 0.15, 0.1, 0.1, 0.1, 0.08, 0.07, 0.05, 0.05}
	// cumulative: .30 .45 .55 .65 .75 .83 .90 .95 1.00
	ks, err := rank.Select(varexp)
	require.NoError(t, err)
	require.Equal(t, []int{2, 5}, ks)
}

func TestSelect_FallbackLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ks, err := rank.Select([]float64{0.6, 0.25, 0.15}, rank.WithLogger(logger))
	require.NoError(t, err)
	// t=0.5: first component already reaches it, fallback 1. t=0.8: only 0.60 < 0.8.
	require.Equal(t, []int{1, 1}, ks)
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "threshold=0.5")
	require.NotContains(t, buf.String(), "threshold=0.8")
}

func TestSelect_RoundingHalfToEven(t *testing.T) {
	t.Parallel()

	// Binary-exact halves: 12.5 → 12, 37.5 → 38, 62.5 → 62.
	cum := rank.Cumulative([]float64{0.125, 0.25, 0.25}, 2)
	require.Equal(t, []float64{0.12, 0.38, 0.62}, cum)

	// A cumulative of 0.4999 rounds to 0.50 and therefore does not count below 0.5.
	ks, err := rank.Select([]float64{0.4999, 0.3, 0.2001}, rank.WithThresholds(0.5))
	require.NoError(t, err)
	require.Equal(t, []int{1}, ks) // 0 below → fallback

	ks, err = rank.Select([]float64{0.4999, 0.3, 0.2001}, rank.WithThresholds(0.5), rank.WithPrecision(4))
	require.NoError(t, err)
	require.Equal(t, []int{1}, ks)

	ks, err = rank.Select([]float64{0.2, 0.2, 0.0999, 0.5001}, rank.WithThresholds(0.5), rank.WithPrecision(4))
	require.NoError(t, err)
	require.Equal(t, []int{3}, ks)
}

func TestSelect_AllBelowThreshold(t *testing.T) {
	t.Parallel()

	// Truncated spectrum never reaches 0.8: every component counts.
	ks, err := rank.Select([]float64{0.3, 0.2, 0.1})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, ks)
}

func TestSelect_Errors(t *testing.T) {
	t.Parallel()

	_, err := rank.Select(nil)
	require.ErrorIs(t, err, rank.ErrNoComponents)
	require.ErrorIs(t, err, errkind.ErrDataShape)

	_, err = rank.Select([]float64{0.5, math.NaN()})
	require.ErrorIs(t, err, rank.ErrBadVariance)

	_, err = rank.Select([]float64{0.5, -0.1})
	require.ErrorIs(t, err, rank.ErrBadVariance)

	_, err = rank.Select([]float64{0.5}, rank.WithThresholds(0))
	require.ErrorIs(t, err, rank.ErrBadThreshold)
	require.ErrorIs(t, err, errkind.ErrConfiguration)

	_, err = rank.Select([]float64{0.5}, rank.WithThresholds())
	require.ErrorIs(t, err, rank.ErrBadThreshold)

	require.Panics(t, func() { rank.WithPrecision(-1) })
}

func TestOverride(t *testing.T) {
	t.Parallel()

	in := []int{2, 5}
	ks, err := rank.Override(in, 10)
	require.NoError(t, err)
	require.Equal(t, []int{2, 5}, ks)
	ks[0] = 9
	require.Equal(t, 2, in[0], "Override must copy")

	_, err = rank.Override([]int{2, 11}, 10)
	require.ErrorIs(t, err, rank.ErrOverrideRange)
	require.ErrorIs(t, err, errkind.ErrDataShape)

	_, err = rank.Override([]int{0}, 10)
	require.ErrorIs(t, err, rank.ErrOverrideRange)

	_, err = rank.Override(nil, 10)
	require.ErrorIs(t, err, rank.ErrEmptyOverride)
}

func ExampleSelect() {
	ks, _ := rank.Select([]float64{0.4, 0.2, 0.15, 0.1, 0.1, 0.05})
	fmt.Println(ks)
	// Output: [1 3]
}
