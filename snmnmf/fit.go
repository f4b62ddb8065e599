// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import "gonum.org/v1/gonum/mat"

// Fit is the snapshot of one completed factorization run.
// Its matrices are deep copies of the run's final state, so later runs and
// further Factorize calls never mutate a retained Fit.
type Fit struct {
	// W is the shared basis matrix (s×r).
	W *mat.Dense
	// H is the mixture matrix of the first dataset (r×m).
	H *mat.Dense
	// H1 is the mixture matrix of the second dataset (r×n).
	H1 *mat.Dense

	// Objective is the final penalized objective value of the run.
	Objective float64
	// ErrAvg is the averaged relative error of the last evaluation.
	ErrAvg float64
	// NumIter is the number of iterations the run performed.
	NumIter int
	// Run is the index of the run this snapshot belongs to.
	Run int
	// Name identifies the factorization method.
	Name string
}

// Basis returns the shared basis matrix W.
func (f *Fit) Basis() *mat.Dense { return f.W }

// Coef returns the mixture matrix H of the first dataset.
func (f *Fit) Coef() *mat.Dense { return f.H }

// Coef1 returns the mixture matrix H1 of the second dataset.
func (f *Fit) Coef1() *mat.Dense { return f.H1 }

// Estimate returns the reconstruction W·H of the first dataset.
func (f *Fit) Estimate() *mat.Dense {
	var est mat.Dense
	est.Mul(f.W, f.H)
	return &est
}

// Estimate1 returns the reconstruction W·H1 of the second dataset.
func (f *Fit) Estimate1() *mat.Dense {
	var est mat.Dense
	est.Mul(f.W, f.H1)
	return &est
}

// Residuals returns V−W·H and V1−W·H1 for the given datasets.
func (f *Fit) Residuals(v, v1 mat.Matrix) (*mat.Dense, *mat.Dense) {
	var r, r1 mat.Dense
	r.Sub(v, f.Estimate())
	r1.Sub(v1, f.Estimate1())
	return &r, &r1
}
