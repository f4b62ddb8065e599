// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

// satisfied reports whether the factorization loop should continue, given
// the previous and current objective values, the relative error of the last
// evaluation and the iteration counter.
//
// The rules are consulted in strict priority order, first match wins:
//
//  1. between evaluation points nothing else is consulted and the loop
//     continues, so up to TestConv-1 iterations of transient divergence can
//     pass unnoticed;
//  2. the averaged relative error signals convergence;
//  3. the iteration budget is exhausted;
//  4. the improvement of the last evaluation is too small;
//  5. the objective regressed, which is terminal rather than retried.
func satisfied(stop Termination, pObj, cObj, errAvg float64, iter int) bool {
	switch {
	case stop.TestConv > 0 && iter%stop.TestConv != 0:
		return true
	case errAvg < convErrTol:
		return false
	case stop.MaxIter > 0 && iter >= stop.MaxIter:
		return false
	case stop.MinResiduals > 0 && iter > 0 && pObj-cObj < stop.MinResiduals:
		return false
	case iter > 0 && cObj > pObj:
		return false
	}
	return true
}
