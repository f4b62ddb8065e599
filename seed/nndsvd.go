// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NNDSVD seeds the factors with the non-negative double singular value
// decomposition of the target matrix.
//
// The method is described in:
//
//	C. Boutsidis, E. Gallopoulos (2008) 'SVD based initialization: A head
//	start for nonnegative matrix factorization.' Pattern Recognition 41:4.
//
// It is deterministic, so multiple runs seeded this way are identical.
type NNDSVD struct{}

// NewNNDSVD creates an NNDSVD seeder.
func NewNNDSVD() NNDSVD { return NNDSVD{} }

// Initialize returns the structured SVD-based factors for v.
// When rank exceeds the number of singular triplets of v the remaining
// factor columns and rows are left zero.
func (NNDSVD) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	rows, cols := v.Dims()

	var svd mat.SVD
	if !svd.Factorize(v, mat.SVDThin) {
		panic("seed: svd factorization failed")
	}
	var u, rv mat.Dense
	svd.UTo(&u)
	svd.VTo(&rv)
	vals := svd.Values(nil)

	w := mat.NewDense(rows, rank, nil)
	h := mat.NewDense(rank, cols, nil)

	// The leading singular triplet of a non-negative matrix is non-negative
	// up to sign, so the absolute values are taken directly.
	sq := math.Sqrt(vals[0])
	for i := 0; i < rows; i++ {
		w.Set(i, 0, sq*math.Abs(u.At(i, 0)))
	}
	for j := 0; j < cols; j++ {
		h.Set(0, j, sq*math.Abs(rv.At(j, 0)))
	}

	for k := 1; k < rank && k < len(vals); k++ {
		uc := mat.Col(nil, k, &u)
		vc := mat.Col(nil, k, &rv)
		up, un := split(uc)
		vp, vn := split(vc)
		nup, nun := floats.Norm(up, 2), floats.Norm(un, 2)
		nvp, nvn := floats.Norm(vp, 2), floats.Norm(vn, 2)

		// Keep whichever signed part pair carries more energy.
		uk, vk, nu, nv := up, vp, nup, nvp
		term := nup * nvp
		if nun*nvn > term {
			uk, vk, nu, nv = un, vn, nun, nvn
			term = nun * nvn
		}
		if term == 0 {
			continue
		}
		scale := math.Sqrt(vals[k] * term)
		for i, x := range uk {
			w.Set(i, k, scale*x/nu)
		}
		for j, x := range vk {
			h.Set(k, j, scale*x/nv)
		}
	}
	return w, h
}

// split separates s into its positive part and negated negative part.
func split(s []float64) (pos, neg []float64) {
	pos = make([]float64, len(s))
	neg = make([]float64, len(s))
	for i, x := range s {
		if x > 0 {
			pos[i] = x
		} else {
			neg[i] = -x
		}
	}
	return pos, neg
}
