// SPDX-License-Identifier: MIT
// Package: residual
//
// Purpose:
//   - Remove batch fixed effects and linear covariate effects from every
//     neighborhood column of the NAM, sample-wise.
//
// Paths:
//   - none:         Y − 1·ȳᵀ (column centering).
//   - batch only:   subtract the per-batch column means (fixed effects on batch).
//   - covariates:   center Y and the design D = [batch dummies | X], then
//                   Y − Q Qᵀ Y with D = QR (Householder, gonum). Batch dummies
//                   share the single projection with X, so no variance is
//                   subtracted twice.
//
// Guarantees (within rounding):
//   - every output column has mean 0;
//   - every output column is orthogonal to every design column;
//   - within each batch the output column mean is 0.

package residual

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const opResidualize = "Residualize"

// Result is the residualized abundance matrix and the model that produced it.
type Result struct {
	Matrix  *mat.Dense // samples × neighborhoods
	Design  *mat.Dense // centered design (samples × p); nil when no covariates were fitted
	DOF     int        // degrees of freedom consumed, intercept included
	Batches int        // distinct batch levels removed (0 when batch correction is off)
}

// Residualize returns a corrected copy of Y (samples × neighborhoods); Y is not modified.
//
// Errors:
//   - ErrNilMatrix, ErrBatchLength, ErrBadBatchCode, ErrCovariateRows,
//     ErrNonFinite, ErrSingularDesign, ErrNoResidualDOF.
func Residualize(Y *mat.Dense, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if Y == nil || Y.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", opResidualize, ErrNilMatrix)
	}
	n, _ := Y.Dims()

	codes, levels, err := presentLevels(o.batches, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opResidualize, err)
	}
	if o.covariates != nil {
		if r, _ := o.covariates.Dims(); r != n {
			return nil, fmt.Errorf("%s: %d covariate rows for %d samples: %w", opResidualize, r, n, ErrCovariateRows)
		}
		if err := checkFinite(o.covariates); err != nil {
			return nil, fmt.Errorf("%s: %w", opResidualize, err)
		}
	}

	R := mat.DenseCopyOf(Y)
	res := &Result{Matrix: R, DOF: 1}
	if levels > 1 {
		res.Batches = levels
	}

	switch {
	case o.covariates == nil && levels <= 1:
		centerColumns(R)

	case o.covariates == nil:
		subtractGroupMeans(R, codes, levels)
		res.DOF = levels

	default:
		D := design(codes, levels, o.covariates)
		centerColumns(R)
		centerColumns(D)
		if err := project(R, D, o.rankTol); err != nil {
			return nil, fmt.Errorf("%s: %w", opResidualize, err)
		}
		_, p := D.Dims()
		res.Design = D
		res.DOF = 1 + p
	}

	if res.DOF >= n {
		return nil, fmt.Errorf("%s: %d samples, %d consumed: %w", opResidualize, n, res.DOF, ErrNoResidualDOF)
	}
	if o.standardize {
		standardizeColumns(R)
	}

	return res, nil
}

// presentLevels re-codes batches densely over the levels that occur.
func presentLevels(batches []int, n int) ([]int, int, error) {
	if batches == nil {
		return nil, 0, nil
	}
	if len(batches) != n {
		return nil, 0, fmt.Errorf("%d codes for %d samples: %w", len(batches), n, ErrBatchLength)
	}
	seen := map[int]struct{}{}
	for i, b := range batches {
		if b < 0 {
			return nil, 0, fmt.Errorf("sample %d code %d: %w", i, b, ErrBadBatchCode)
		}
		seen[b] = struct{}{}
	}
	distinct := make([]int, 0, len(seen))
	for b := range seen {
		distinct = append(distinct, b)
	}
	sort.Ints(distinct)
	dense := make(map[int]int, len(distinct))
	for i, b := range distinct {
		dense[b] = i
	}
	codes := make([]int, n)
	for i, b := range batches {
		codes[i] = dense[b]
	}

	return codes, len(distinct), nil
}

func checkFinite(X *mat.Dense) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("covariate (%d,%d)=%g: %w", i, j, v, ErrNonFinite)
			}
		}
	}

	return nil
}

// design stacks batch indicators (level 0 dropped) left of X.
func design(codes []int, levels int, X *mat.Dense) *mat.Dense {
	n, p := X.Dims()
	nb := 0
	if levels > 1 {
		nb = levels - 1
	}
	D := mat.NewDense(n, nb+p, nil)
	for i := 0; i < n; i++ {
		if nb > 0 && codes[i] > 0 {
			D.Set(i, codes[i]-1, 1)
		}
		for j := 0; j < p; j++ {
			D.Set(i, nb+j, X.At(i, j))
		}
	}

	return D
}

func centerColumns(m *mat.Dense) {
	r, c := m.Dims()
	means := make([]float64, c)
	for i := 0; i < r; i++ {
		floats.Add(means, m.RawRowView(i))
	}
	floats.Scale(1/float64(r), means)
	for i := 0; i < r; i++ {
		floats.Sub(m.RawRowView(i), means)
	}
}

func subtractGroupMeans(m *mat.Dense, codes []int, levels int) {
	_, c := m.Dims()
	sums := make([][]float64, levels)
	counts := make([]float64, levels)
	for g := range sums {
		sums[g] = make([]float64, c)
	}
	for i, g := range codes {
		floats.Add(sums[g], m.RawRowView(i))
		counts[g]++
	}
	for g := range sums {
		floats.Scale(1/counts[g], sums[g])
	}
	for i, g := range codes {
		floats.Sub(m.RawRowView(i), sums[g])
	}
}

// project replaces Y by (I − Q Qᵀ) Y where D = QR. Y and D must be centered.
func project(Y, D *mat.Dense, rankTol float64) error {
	n, p := D.Dims()
	if p == 0 {
		return nil
	}
	if p >= n {
		return fmt.Errorf("%d design columns for %d samples: %w", p, n, ErrSingularDesign)
	}

	var qr mat.QR
	qr.Factorize(D)
	var R mat.Dense
	qr.RTo(&R)
	var maxDiag float64
	for j := 0; j < p; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.At(j, j)))
	}
	for j := 0; j < p; j++ {
		if math.Abs(R.At(j, j)) <= rankTol*maxDiag || maxDiag == 0 {
			return fmt.Errorf("design column %d is collinear with earlier columns or constant: %w", j, ErrSingularDesign)
		}
	}

	var Q mat.Dense
	qr.QTo(&Q)
	Qp := Q.Slice(0, n, 0, p)

	var coef, fitted mat.Dense
	coef.Mul(Qp.T(), Y)
	fitted.Mul(Qp, &coef)
	Y.Sub(Y, &fitted)

	return nil
}

func standardizeColumns(m *mat.Dense) {
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		sd := stat.StdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			continue
		}
		for i := 0; i < r; i++ {
			m.Set(i, j, col[i]/sd)
		}
	}
}
