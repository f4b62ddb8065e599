// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import "gonum.org/v1/gonum/mat"

// Fixed replays a caller-supplied factor pair.
// Every Initialize call hands out fresh copies, so repeated runs always
// start from the same point and callers may mutate the result freely.
type Fixed struct {
	w, h *mat.Dense
}

// NewFixed creates a Fixed seeder replaying the given factors.
func NewFixed(w, h *mat.Dense) *Fixed {
	return &Fixed{w: mat.DenseCopyOf(w), h: mat.DenseCopyOf(h)}
}

// Initialize returns copies of the stored factors.
// It panics when the stored factors do not match the shape of v and rank.
func (f *Fixed) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	rows, cols := v.Dims()
	wr, wc := f.w.Dims()
	hr, hc := f.h.Dims()
	if wr != rows || wc != rank || hr != rank || hc != cols {
		panic("seed: fixed factors do not match target shape")
	}
	return mat.DenseCopyOf(f.w), mat.DenseCopyOf(f.h)
}
