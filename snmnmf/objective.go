// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// objective evaluates the penalized objective of the current factors and the
// averaged relative reconstruction error consumed by the stopping rules.
//
// The objective is the squared reconstruction error of both datasets, minus
// the trace rewards for agreement with the prior networks, plus the
// Frobenius growth penalties on W, H and H1. It has no side effects.
func (d *runDriver) objective() (obj, errAvg float64) {
	f := d.fac
	wt := f.weights

	var est, diff mat.Dense
	est.Mul(d.w, d.h)
	diff.Sub(f.v, &est)
	var est1, diff1 mat.Dense
	est1.Mul(d.w, d.h1)
	diff1.Sub(f.v1, &est1)

	err1 := absMean(&diff) / matMean(f.v)
	err2 := absMean(&diff1) / matMean(f.v1)
	errAvg = err1 + err2

	eucl := sqSum(&diff) + sqSum(&diff1)

	// tr(H1·A·H1ᵀ) rewards co-placement of variables linked in A.
	var linked, quad mat.Dense
	linked.Mul(d.h1, f.a)
	quad.Mul(&linked, d.h1.T())
	tr1 := mat.Trace(&quad)

	// tr(H·B·H1ᵀ) rewards co-placement of variable pairs linked in B.
	var bridged, quad1 mat.Dense
	bridged.Mul(d.h, f.b)
	quad1.Mul(&bridged, d.h1.T())
	tr2 := mat.Trace(&quad1)

	obj = eucl - wt.Lamb*tr1 - wt.Lamb1*tr2 +
		wt.Gamma*sqSum(d.w) + wt.Gamma1*(sqSum(d.h)+sqSum(d.h1))
	return obj, errAvg
}

func sqSum(m *mat.Dense) float64 {
	raw := m.RawMatrix()
	sum := 0.0
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		sum += floats.Dot(row, row)
	}
	return sum
}

func absMean(m *mat.Dense) float64 {
	raw := m.RawMatrix()
	sum := 0.0
	for i := 0; i < raw.Rows; i++ {
		for _, v := range raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols] {
			sum += math.Abs(v)
		}
	}
	return sum / float64(raw.Rows*raw.Cols)
}

func matMean(m mat.Matrix) float64 {
	r, c := m.Dims()
	return mat.Sum(m) / float64(r*c)
}
