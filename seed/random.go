// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random seeds both factors with entries drawn uniformly from [0,1).
type Random struct {
	uni distuv.Uniform
}

// NewRandom creates a Random seeder drawing from src.
// A nil src falls back to the shared global source.
func NewRandom(src rand.Source) *Random {
	return &Random{uni: distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

// Initialize returns uniformly random non-negative factors for v.
func (r *Random) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	rows, cols := v.Dims()
	w := mat.NewDense(rows, rank, nil)
	h := mat.NewDense(rank, cols, nil)
	fill(w, r.uni.Rand)
	fill(h, r.uni.Rand)
	return w, h
}

func fill(m *mat.Dense, gen func() float64) {
	raw := m.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j := range row {
			row[j] = gen()
		}
	}
}
