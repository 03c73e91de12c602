// SPDX-License-Identifier: MIT

package residual_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/nampc/errkind"
	"github.com/katalvlaran/nampc/residual"
)

const tol = 1e-9

func randDense(r, c int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, 42))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()
	}

	return mat.NewDense(r, c, data)
}

func column(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	return mat.Col(make([]float64, r), j, m)
}

func requireMeansZero(t *testing.T, m *mat.Dense, rows []int) {
	t.Helper()
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		var s float64
		for _, i := range rows {
			s += m.At(i, j)
		}
		require.InDelta(t, 0, s/float64(len(rows)), tol, "column %d rows %v", j, rows)
	}
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	return rows
}

func TestResidualize_CenterOnly(t *testing.T) {
	t.Parallel()

	Y := randDense(8, 20, 1)
	orig := mat.DenseCopyOf(Y)
	res, err := residual.Residualize(Y)
	require.NoError(t, err)
	require.Equal(t, 1, res.DOF)
	require.Zero(t, res.Batches)
	require.Nil(t, res.Design)
	require.True(t, mat.Equal(orig, Y), "input must not be modified")
	requireMeansZero(t, res.Matrix, allRows(8))

	// Differences between rows are preserved by centering.
	var d1, d2 mat.VecDense
	d1.SubVec(Y.RowView(0), Y.RowView(3))
	d2.SubVec(res.Matrix.RowView(0), res.Matrix.RowView(3))
	require.True(t, mat.EqualApprox(&d1, &d2, tol))
}

func TestResidualize_BatchOnly(t *testing.T) {
	t.Parallel()

	Y := randDense(9, 15, 2)
	batches := []int{4, 4, 4, 7, 7, 7, 9, 9, 9}
	res, err := residual.Residualize(Y, residual.WithBatches(batches))
	require.NoError(t, err)
	require.Equal(t, 3, res.DOF)
	require.Equal(t, 3, res.Batches)
	requireMeansZero(t, res.Matrix, []int{0, 1, 2})
	requireMeansZero(t, res.Matrix, []int{3, 4, 5})
	requireMeansZero(t, res.Matrix, []int{6, 7, 8})
	requireMeansZero(t, res.Matrix, allRows(9))

	// Within-batch deviations are untouched.
	require.InDelta(t, Y.At(0, 0)-Y.At(1, 0), res.Matrix.At(0, 0)-res.Matrix.At(1, 0), tol)
}

func TestResidualize_SingleBatchIsCentering(t *testing.T) {
	t.Parallel()

	Y := randDense(5, 4, 3)
	a, err := residual.Residualize(Y, residual.WithBatches([]int{2, 2, 2, 2, 2}))
	require.NoError(t, err)
	b, err := residual.Residualize(Y)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(a.Matrix, b.Matrix, tol))
	require.Equal(t, 1, a.DOF)
	require.Zero(t, a.Batches)
}

func TestResidualize_CovariatesOrthogonal(t *testing.T) {
	t.Parallel()

	Y := randDense(12, 30, 4)
	X := randDense(12, 2, 5)
	res, err := residual.Residualize(Y, residual.WithCovariates(X))
	require.NoError(t, err)
	require.Equal(t, 3, res.DOF)
	requireMeansZero(t, res.Matrix, allRows(12))

	_, m := res.Matrix.Dims()
	for j := 0; j < m; j++ {
		r := column(res.Matrix, j)
		for k := 0; k < 2; k++ {
			require.InDelta(t, 0, floats.Dot(r, column(X, k)), tol, "neighborhood %d covariate %d", j, k)
		}
	}
}

func TestResidualize_BatchAndCovariates(t *testing.T) {
	t.Parallel()

	Y := randDense(12, 10, 6)
	X := randDense(12, 1, 7)
	batches := []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2}
	res, err := residual.Residualize(Y, residual.WithBatches(batches), residual.WithCovariates(X))
	require.NoError(t, err)
	require.Equal(t, 1+2+1, res.DOF)
	require.Equal(t, 3, res.Batches)
	dr, dc := res.Design.Dims()
	require.Equal(t, 12, dr)
	require.Equal(t, 3, dc)

	for b := 0; b < 3; b++ {
		requireMeansZero(t, res.Matrix, []int{b, b + 3, b + 6, b + 9})
	}
	_, m := res.Matrix.Dims()
	for j := 0; j < m; j++ {
		require.InDelta(t, 0, floats.Dot(column(res.Matrix, j), column(X, 0)), tol)
	}
}

func TestResidualize_Standardize(t *testing.T) {
	t.Parallel()

	Y := randDense(10, 6, 8)
	res, err := residual.Residualize(Y, residual.WithStandardize())
	require.NoError(t, err)
	for j := 0; j < 6; j++ {
		require.InDelta(t, 1.0, stat.StdDev(column(res.Matrix, j), nil), tol)
	}

	// A constant column stays all zero instead of NaN.
	Z := mat.NewDense(3, 2, []float64{1, 5, 1, 6, 1, 9})
	res, err = residual.Residualize(Z, residual.WithStandardize())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Zero(t, res.Matrix.At(i, 0))
		require.False(t, math.IsNaN(res.Matrix.At(i, 1)))
	}
}

func TestResidualize_Errors(t *testing.T) {
	t.Parallel()

	Y := randDense(6, 4, 9)

	_, err := residual.Residualize(nil)
	require.ErrorIs(t, err, residual.ErrNilMatrix)

	_, err = residual.Residualize(Y, residual.WithCovariates(randDense(5, 1, 1)))
	require.ErrorIs(t, err, residual.ErrCovariateRows)
	require.ErrorIs(t, err, errkind.ErrConfiguration)

	dup := mat.NewDense(6, 2, []float64{1, 2, 2, 4, 3, 6, 4, 8, 5, 10, 6, 12})
	_, err = residual.Residualize(Y, residual.WithCovariates(dup))
	require.ErrorIs(t, err, residual.ErrSingularDesign)
	require.ErrorIs(t, err, errkind.ErrNumerical)

	constant := mat.NewDense(6, 1, []float64{3, 3, 3, 3, 3, 3})
	_, err = residual.Residualize(Y, residual.WithCovariates(constant))
	require.ErrorIs(t, err, residual.ErrSingularDesign)

	nan := mat.NewDense(6, 1, []float64{1, 2, math.NaN(), 4, 5, 6})
	_, err = residual.Residualize(Y, residual.WithCovariates(nan))
	require.ErrorIs(t, err, residual.ErrNonFinite)

	_, err = residual.Residualize(Y, residual.WithBatches([]int{0, 1}))
	require.ErrorIs(t, err, residual.ErrBatchLength)

	_, err = residual.Residualize(Y, residual.WithBatches([]int{0, 0, 0, 1, 1, -1}))
	require.ErrorIs(t, err, residual.ErrBadBatchCode)

	_, err = residual.Residualize(Y, residual.WithBatches([]int{0, 1, 2, 3, 4, 5}))
	require.ErrorIs(t, err, residual.ErrNoResidualDOF)
	require.ErrorIs(t, err, errkind.ErrDataShape)

	_, err = residual.Residualize(Y, residual.WithCovariates(randDense(6, 6, 2)))
	require.ErrorIs(t, err, residual.ErrSingularDesign)

	require.Panics(t, func() { residual.WithRankTolerance(-1) })
}
