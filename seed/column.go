// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RandomC seeds the basis with column averages drawn from the large-norm
// columns of the target matrix and the mixture uniformly from [0,1).
//
// Each basis column is the mean of PCol columns sampled from the LCol
// columns of v with the largest Euclidean norm.
type RandomC struct {
	rng *rand.Rand

	// PCol is the number of averaged columns per basis column.
	// Zero means one fifth of the columns of v, at least one.
	PCol int
	// LCol is the size of the large-norm column pool.
	// Zero means one half of the columns of v, at least PCol.
	LCol int
}

// NewRandomC creates a RandomC seeder drawing from src.
// A nil src falls back to a freshly seeded source.
func NewRandomC(src rand.Source) *RandomC {
	return &RandomC{rng: newRand(src)}
}

// Initialize returns averaged-column factors for v.
func (c *RandomC) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	_, cols := v.Dims()
	p := c.PCol
	if p <= 0 {
		p = max(1, cols/5)
	}
	l := c.LCol
	if l <= 0 {
		l = max(p, cols/2)
	}
	l = min(l, cols)

	top := topColumns(v, l)
	w := averagedColumns(v, rank, p, top, c.rng)
	h := mat.NewDense(rank, cols, nil)
	fill(h, c.rng.Float64)
	return w, h
}

func newRand(src rand.Source) *rand.Rand {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.New(src)
}

// RandomVCol seeds the basis with averages of random columns of the target
// matrix and the mixture with averages of random rows.
type RandomVCol struct {
	rng *rand.Rand

	// PCol is the number of averaged columns per basis column.
	// Zero means one fifth of the columns of v, at least one.
	PCol int
	// PRow is the number of averaged rows per mixture row.
	// Zero means one fifth of the rows of v, at least one.
	PRow int
}

// NewRandomVCol creates a RandomVCol seeder drawing from src.
// A nil src falls back to a freshly seeded source.
func NewRandomVCol(src rand.Source) *RandomVCol {
	return &RandomVCol{rng: newRand(src)}
}

// Initialize returns averaged-column and averaged-row factors for v.
func (c *RandomVCol) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	rows, cols := v.Dims()
	pc := c.PCol
	if pc <= 0 {
		pc = max(1, cols/5)
	}
	pr := c.PRow
	if pr <= 0 {
		pr = max(1, rows/5)
	}

	all := make([]int, cols)
	for j := range all {
		all[j] = j
	}
	w := averagedColumns(v, rank, pc, all, c.rng)

	h := mat.NewDense(rank, cols, nil)
	row := make([]float64, cols)
	acc := make([]float64, cols)
	for k := 0; k < rank; k++ {
		clear(acc)
		for i := 0; i < pr; i++ {
			mat.Row(row, c.rng.IntN(rows), v)
			floats.Add(acc, row)
		}
		floats.Scale(1/float64(pr), acc)
		h.SetRow(k, acc)
	}
	return w, h
}

// averagedColumns builds a rows×rank basis whose columns are means of p
// columns of v sampled from the given index pool.
func averagedColumns(v mat.Matrix, rank, p int, pool []int, rng *rand.Rand) *mat.Dense {
	rows, _ := v.Dims()
	w := mat.NewDense(rows, rank, nil)
	col := make([]float64, rows)
	acc := make([]float64, rows)
	for k := 0; k < rank; k++ {
		clear(acc)
		for i := 0; i < p; i++ {
			mat.Col(col, pool[rng.IntN(len(pool))], v)
			floats.Add(acc, col)
		}
		floats.Scale(1/float64(p), acc)
		w.SetCol(k, acc)
	}
	return w
}

// topColumns returns the indices of the l columns of v with the largest
// Euclidean norm.
func topColumns(v mat.Matrix, l int) []int {
	rows, cols := v.Dims()
	norms := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, v)
		norms[j] = floats.Norm(col, 2)
	}
	idx := make([]int, cols)
	for j := range idx {
		idx[j] = j
	}
	slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(norms[b], norms[a]) })
	return idx[:l]
}
