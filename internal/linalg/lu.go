// Copyright 2015 Dorival de Moraes Pedroso. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg provides the small dense-matrix kernel the Vicinity
// gradient generator needs: LU decomposition with partial pivoting and
// a triangular solve. gosl/la supplies the storage (la.MatAlloc) and
// the vector reductions (la.VecDot); see SPEC_FULL.md §3 for why the
// factorization itself is not delegated to a gosl/la solver type.
package linalg

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/la"
)

// ErrSingular is returned when the basis matrix has no usable pivot,
// i.e. the delta vectors supplied to the Vicinity kernel are (close to)
// linearly dependent.
var ErrSingular = errors.New("linalg: singular matrix")

// LU holds an in-place LU factorization of a square matrix, following
// the classic partial-pivoting scheme (Golub & Van Loan).
type LU struct {
	n    int
	a    [][]float64 // factorized in place: L (below diag, unit diag implicit) + U (on/above diag)
	perm []int       // row permutation applied during pivoting
	sign float64     // sign of the permutation (unused, kept for determinant extension)
}

// Factorize copies a into a fresh la.MatAlloc-backed matrix and computes
// its LU decomposition with partial pivoting. Returns ErrSingular if any
// pivot is (numerically) zero.
func Factorize(a [][]float64) (*LU, error) {
	n := len(a)
	m := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		copy(m[i], a[i])
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0
	for k := 0; k < n; k++ {
		// partial pivot: largest magnitude in column k, rows k..n-1
		p := k
		best := math.Abs(m[k][k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(m[i][k]); v > best {
				best, p = v, i
			}
		}
		if best < 1e-14 {
			return nil, ErrSingular
		}
		if p != k {
			m[k], m[p] = m[p], m[k]
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			factor := m[i][k] / m[k][k]
			m[i][k] = factor
			for j := k + 1; j < n; j++ {
				m[i][j] -= factor * m[k][j]
			}
		}
	}
	return &LU{n: n, a: m, perm: perm, sign: sign}, nil
}

// Solve returns x such that A·x = b, where A is the matrix this LU
// factorized. b is not modified.
func (lu *LU) Solve(b []float64) []float64 {
	n := lu.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = b[lu.perm[i]]
	}
	// forward substitution: L·z = y (unit lower triangular)
	for i := 0; i < n; i++ {
		sum := la.VecDot(lu.a[i][:i], y[:i])
		y[i] -= sum
	}
	// back substitution: U·x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := la.VecDot(lu.a[i][i+1:n], x[i+1:n])
		x[i] = (y[i] - sum) / lu.a[i][i]
	}
	return x
}

// SolveColumns solves A·g_i = rhs_i for each column i of rhs (each rhs
// column is one objective's finite-difference vector), returning the
// stacked gradient matrix g (one row per rhs column, n entries each).
func SolveColumns(a [][]float64, rhs [][]float64) ([][]float64, error) {
	lu, err := Factorize(a)
	if err != nil {
		return nil, err
	}
	g := make([][]float64, len(rhs))
	for i, col := range rhs {
		g[i] = lu.Solve(col)
	}
	return g, nil
}
