// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import (
	"math"
	"testing"
)

func TestStopRules(t *testing.T) {

	nan := math.NaN()

	tests := []struct {
		name               string
		stop               Termination
		pObj, cObj, errAvg float64
		iter               int
		cont               bool
	}{
		// Between evaluation points nothing else may be consulted: the NaN
		// objectives would trip every later rule if they were looked at.
		{"skip-first-between-evals", Termination{TestConv: 3}, nan, nan, nan, 1, true},
		{"skip-second-between-evals", Termination{TestConv: 3}, nan, nan, nan, 2, true},
		{"eval-at-interval", Termination{TestConv: 3, MaxIter: 3}, 10, 9, 1, 3, false},
		{"converged", Termination{}, 10, 9, 1e-6, 5, false},
		{"budget-exhausted", Termination{MaxIter: 10}, 10, 9, 1, 10, false},
		{"budget-left", Termination{MaxIter: 10}, 10, 9, 1, 9, true},
		{"improvement-too-small", Termination{MinResiduals: 0.5}, 10, 9.8, 1, 4, false},
		{"improvement-large-enough", Termination{MaxIter: 100, MinResiduals: 0.5}, 10, 9, 1, 4, true},
		{"regressed", Termination{}, 9, 10, 1, 4, false},
		{"regression-ignored-at-start", Termination{}, 9, 10, 1, 0, true},
		{"keep-going", Termination{MaxIter: 100}, 10, 9, 1, 4, true},
	}

	for _, tt := range tests {
		if got := satisfied(tt.stop, tt.pObj, tt.cObj, tt.errAvg, tt.iter); got != tt.cont {
			t.Fatalf("%s: satisfied = %v, want %v", tt.name, got, tt.cont)
		}
	}
}

func TestEvalPoint(t *testing.T) {

	every := Termination{}
	for iter := 0; iter < 5; iter++ {
		if !every.evalPoint(iter) {
			t.Fatalf("TestConv unset: iteration %d must be an evaluation point", iter)
		}
	}

	sampled := Termination{TestConv: 3}
	want := []bool{true, false, false, true, false, false, true}
	for iter, w := range want {
		if got := sampled.evalPoint(iter); got != w {
			t.Fatalf("TestConv=3: evalPoint(%d) = %v, want %v", iter, got, w)
		}
	}
}
