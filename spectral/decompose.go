// SPDX-License-Identifier: MIT
// Package: spectral
//
// Purpose:
//   - Factor the residualized NAM R (samples × neighborhoods) into
//     R ≈ U·diag(σ)·Vᵀ and report per-component variance explained.
//
// Stages:
//  1. Validate input and compute ‖R‖²_F.
//  2. Factor with the selected Method, keep the k leading components.
//  3. Fix signs: the largest-|u| entry of every score column is positive.
//  4. Loadings V = Rᵀ·U·diag(1/σ).
//
// Complexity (N samples, M neighborhoods):
//   - Gram:       O(N²·M + N³)
//   - SVD:        O(N·M·min(N,M))
//   - Randomized: O(N·M·(k+p)·(q+1))

package spectral

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const opDecompose = "Decompose"

// Decomposition holds the k leading components of R.
type Decomposition struct {
	Scores            *mat.Dense // N × k; orthonormal columns (sample scores)
	Loadings          *mat.Dense // M × k; neighborhood loadings
	SingularValues    []float64  // length k, non-increasing
	VarianceExplained []float64  // σ²/‖R‖²_F, length k, non-increasing
	TotalVariance     float64    // ‖R‖²_F
	Method            Method
}

// Components returns k.
func (d *Decomposition) Components() int { return len(d.SingularValues) }

// Decompose factors R. R is not modified.
//
// Errors:
//   - ErrNilMatrix, ErrBadComponents, ErrUnknownMethod (configuration).
//   - ErrNonFinite, ErrZeroVariance, ErrNoConvergence (numerical).
func Decompose(R *mat.Dense, opts ...Option) (*Decomposition, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Stage 1
	if R == nil || R.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", opDecompose, ErrNilMatrix)
	}
	n, m := R.Dims()
	maxK := min(n, m)
	k := o.k
	if k == 0 {
		k = maxK
	}
	if k < 1 {
		return nil, fmt.Errorf("%s: k=%d: %w", opDecompose, k, ErrBadComponents)
	}
	k = min(k, maxK)

	var total float64
	for i := 0; i < n; i++ {
		row := R.RawRowView(i)
		if floats.HasNaN(row) {
			return nil, fmt.Errorf("%s: row %d: %w", opDecompose, i, ErrNonFinite)
		}
		for _, v := range row {
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s: row %d: %w", opDecompose, i, ErrNonFinite)
			}
			total += v * v
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%s: %w", opDecompose, ErrZeroVariance)
	}

	// Stage 2
	var (
		U     *mat.Dense
		sigma []float64
		err   error
	)
	switch o.method {
	case Gram:
		U, sigma, err = viaGram(R, k)
	case SVD:
		U, sigma, err = viaSVD(R, k)
	case Randomized:
		U, sigma, err = viaRandomized(R, k, o)
	default:
		err = fmt.Errorf("method %v: %w", o.method, ErrUnknownMethod)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDecompose, err)
	}

	// Stage 3
	fixSigns(U)

	// Stage 4
	V := loadings(R, U, sigma)

	varexp := make([]float64, k)
	for c, s := range sigma {
		varexp[c] = s * s / total
	}

	return &Decomposition{
		Scores:            U,
		Loadings:          V,
		SingularValues:    sigma,
		VarianceExplained: varexp,
		TotalVariance:     total,
		Method:            o.method,
	}, nil
}

// viaGram eigendecomposes K = R·Rᵀ; σ_c = √λ_c with negative round-off clamped.
func viaGram(R *mat.Dense, k int) (*mat.Dense, []float64, error) {
	n, _ := R.Dims()
	K := mat.NewSymDense(n, nil)
	K.SymOuterK(1, R)

	var eig mat.EigenSym
	if ok := eig.Factorize(K, true); !ok {
		return nil, nil, fmt.Errorf("eigen of %dx%d gram matrix: %w", n, n, ErrNoConvergence)
	}
	vals := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	U := mat.NewDense(n, k, nil)
	sigma := make([]float64, k)
	col := make([]float64, n)
	for c := 0; c < k; c++ {
		idx := n - 1 - c
		sigma[c] = math.Sqrt(math.Max(vals[idx], 0))
		U.SetCol(c, mat.Col(col, idx, &vecs))
	}

	return U, sigma, nil
}

func viaSVD(R *mat.Dense, k int) (*mat.Dense, []float64, error) {
	n, m := R.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(R, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("svd of %dx%d: %w", n, m, ErrNoConvergence)
	}
	vals := svd.Values(nil) // descending
	var u mat.Dense
	svd.UTo(&u)

	return mat.DenseCopyOf(u.Slice(0, n, 0, k)), append([]float64(nil), vals[:k]...), nil
}

// viaRandomized is the Halko–Martinsson–Tropp range finder with q power
// iterations, re-orthonormalized after every multiply.
func viaRandomized(R *mat.Dense, k int, o options) (*mat.Dense, []float64, error) {
	n, m := R.Dims()
	l := min(k+o.oversampling, min(n, m))

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	omega := mat.NewDense(m, l, nil)
	raw := omega.RawMatrix()
	for i := range raw.Data {
		raw.Data[i] = rng.NormFloat64()
	}

	var Y mat.Dense
	Y.Mul(R, omega)
	Q := orthonormalize(&Y)
	for it := 0; it < o.powerIter; it++ {
		var Z mat.Dense
		Z.Mul(R.T(), Q)
		Zq := orthonormalize(&Z)
		var next mat.Dense
		next.Mul(R, Zq)
		Q = orthonormalize(&next)
	}

	// B = Qᵀ R is l × m; its SVD lifts back through Q.
	var B mat.Dense
	B.Mul(Q.T(), R)
	var svd mat.SVD
	if ok := svd.Factorize(&B, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("svd of %dx%d sketch: %w", l, m, ErrNoConvergence)
	}
	vals := svd.Values(nil)
	var ub mat.Dense
	svd.UTo(&ub)

	var U mat.Dense
	U.Mul(Q, ub.Slice(0, l, 0, k))

	return &U, append([]float64(nil), vals[:k]...), nil
}

// orthonormalize returns the thin Q factor of A (rows ≥ cols).
func orthonormalize(A *mat.Dense) *mat.Dense {
	r, c := A.Dims()
	var qr mat.QR
	qr.Factorize(A)
	var Q mat.Dense
	qr.QTo(&Q)

	return mat.DenseCopyOf(Q.Slice(0, r, 0, c))
}

// fixSigns flips every column whose largest-magnitude entry is negative.
// Ties resolve to the lowest row index.
func fixSigns(U *mat.Dense) {
	n, k := U.Dims()
	for c := 0; c < k; c++ {
		best, arg := -1.0, 0
		for i := 0; i < n; i++ {
			if a := math.Abs(U.At(i, c)); a > best {
				best, arg = a, i
			}
		}
		if U.At(arg, c) < 0 {
			for i := 0; i < n; i++ {
				U.Set(i, c, -U.At(i, c))
			}
		}
	}
}

// loadings computes V = Rᵀ U diag(1/σ); columns with σ = 0 stay zero.
func loadings(R, U *mat.Dense, sigma []float64) *mat.Dense {
	var V mat.Dense
	V.Mul(R.T(), U)
	m, k := V.Dims()
	for c := 0; c < k; c++ {
		scale := 0.0
		if sigma[c] > 0 {
			scale = 1 / sigma[c]
		}
		for i := 0; i < m; i++ {
			V.Set(i, c, V.At(i, c)*scale)
		}
	}

	return &V
}
