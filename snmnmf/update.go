// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import "gonum.org/v1/gonum/mat"

// update applies one multiplicative update step to the working factors.
//
// W is refreshed first from the current H and H1. The shared Gram term
// T = WᵀW + γ₁I then uses the refreshed W. The candidate for H is computed
// from the old H1, H1 is updated from the old H, and only then is H
// replaced. Changing this order changes the numerical results.
//
// Denominators are not guarded: a vanishing denominator propagates as
// Inf/NaN exactly as computed.
func (d *runDriver) update() {
	f := d.fac
	wt := f.weights

	// W ← W ∘ (V·Hᵀ + V1·H1ᵀ) ⊘ (W·(H·Hᵀ + H1·H1ᵀ) + γ/2·W)
	var num, den, tmp, gram, gram1 mat.Dense
	num.Mul(f.v, d.h.T())
	tmp.Mul(f.v1, d.h1.T())
	num.Add(&num, &tmp)
	gram.Mul(d.h, d.h.T())
	gram1.Mul(d.h1, d.h1.T())
	gram.Add(&gram, &gram1)
	den.Mul(d.w, &gram)
	var decay mat.Dense
	decay.Scale(wt.Gamma/2, d.w)
	den.Add(&den, &decay)
	num.DivElem(&num, &den)
	d.w.MulElem(d.w, &num)

	// T = WᵀW + γ₁I
	var t mat.Dense
	t.Mul(d.w.T(), d.w)
	for i := 0; i < f.rank; i++ {
		t.Set(i, i, t.At(i, i)+wt.Gamma1)
	}

	// Candidate H ← H ∘ (Wᵀ·V + λ₁/2·H1·Bᵀ) ⊘ (T·H), using the old H1.
	var hNum, hDen, cross mat.Dense
	hNum.Mul(d.w.T(), f.v)
	cross.Mul(d.h1, f.b.T())
	cross.Scale(wt.Lamb1/2, &cross)
	hNum.Add(&hNum, &cross)
	hDen.Mul(&t, d.h)
	hNum.DivElem(&hNum, &hDen)
	var hNext mat.Dense
	hNext.MulElem(d.h, &hNum)

	// H1 ← H1 ∘ (Wᵀ·V1 + λ·H1·A + λ₁/2·H·B) ⊘ (T·H1), using the old H.
	var h1Num, h1Den, link, link1 mat.Dense
	h1Num.Mul(d.w.T(), f.v1)
	link.Mul(d.h1, f.a)
	link.Scale(wt.Lamb, &link)
	h1Num.Add(&h1Num, &link)
	link1.Mul(d.h, f.b)
	link1.Scale(wt.Lamb1/2, &link1)
	h1Num.Add(&h1Num, &link1)
	h1Den.Mul(&t, d.h1)
	h1Num.DivElem(&h1Num, &h1Den)
	d.h1.MulElem(d.h1, &h1Num)

	// Commit H only after H1 has consumed its previous value.
	d.h = &hNext
}
