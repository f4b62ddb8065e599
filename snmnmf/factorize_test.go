// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/factorize/seed"
)

// countSeeder counts Initialize calls and hands out zero factors.
type countSeeder struct{ calls int }

func (c *countSeeder) Initialize(v mat.Matrix, rank int) (*mat.Dense, *mat.Dense) {
	c.calls++
	rows, cols := v.Dims()
	return mat.NewDense(rows, rank, nil), mat.NewDense(rank, cols, nil)
}

// scriptSeeder replays a queue of factor pairs, one per Initialize call.
type scriptSeeder struct{ queue [][2]*mat.Dense }

func (s *scriptSeeder) Initialize(mat.Matrix, int) (*mat.Dense, *mat.Dense) {
	next := s.queue[0]
	s.queue = s.queue[1:]
	return mat.DenseCopyOf(next[0]), mat.DenseCopyOf(next[1])
}

func randDense(rng *rand.Rand, r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, rng.Float64())
		}
	}
	return m
}

func TestShapeMismatch(t *testing.T) {

	counting := new(countSeeder)
	p := Problem{
		V:      mat.NewDense(3, 4, nil),
		V1:     mat.NewDense(5, 4, nil),
		Rank:   2,
		Seeder: counting,
	}

	_, err := p.New(nil)
	switch {
	case err == nil:
		t.Fatal("mismatched row counts must be rejected")
	case !errors.Is(err, ErrShapeMismatch):
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	case counting.calls != 0:
		t.Fatal("no seeding may happen before shape validation")
	}
}

func TestProblemDefaults(t *testing.T) {

	rng := rand.New(rand.NewPCG(1, 1))
	p := Problem{
		V:    randDense(rng, 3, 4),
		V1:   randDense(rng, 3, 5),
		Rank: 2,
	}

	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	ar, ac := f.a.Dims()
	br, bc := f.b.Dims()
	switch {
	case f.weights != DefaultWeights():
		t.Fatalf("weights = %+v, want defaults", f.weights)
	case ar != 5 || ac != 5:
		t.Fatalf("default A is %d×%d, want 5×5", ar, ac)
	case br != 4 || bc != 5:
		t.Fatalf("default B is %d×%d, want 4×5", br, bc)
	case f.numRuns != 1:
		t.Fatalf("numRuns = %d, want 1", f.numRuns)
	case f.stop.MaxIter != defaultMaxIter:
		t.Fatalf("MaxIter = %d, want %d", f.stop.MaxIter, defaultMaxIter)
	case f.seeder == nil || f.seeder1 == nil || f.tracker == nil:
		t.Fatal("collaborators must be defaulted")
	}

	// Generated priors must be non-negative.
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if f.a.At(i, j) < 0 {
				t.Fatal("default prior A has a negative entry")
			}
		}
	}
}

func TestProblemValidation(t *testing.T) {

	rng := rand.New(rand.NewPCG(2, 2))
	v, v1 := randDense(rng, 3, 4), randDense(rng, 3, 5)

	tests := []struct {
		name string
		p    Problem
	}{
		{"missing-data", Problem{V: v, Rank: 2}},
		{"bad-rank", Problem{V: v, V1: v1, Rank: 0}},
		{"negative-weight", Problem{V: v, V1: v1, Rank: 2, Weights: &Weights{Gamma: -1}}},
		{"negative-stop", Problem{V: v, V1: v1, Rank: 2, Stop: Termination{TestConv: -1}}},
		{"bad-prior-a", Problem{V: v, V1: v1, Rank: 2, A: mat.NewDense(3, 5, nil)}},
		{"bad-prior-b", Problem{V: v, V1: v1, Rank: 2, B: mat.NewDense(5, 4, nil)}},
	}

	for _, tt := range tests {
		if _, err := tt.p.New(nil); err == nil {
			t.Fatalf("%s: invalid problem must be rejected", tt.name)
		}
	}
}

// Both scripted seeds reconstruct the all-ones datasets exactly, so every
// run converges immediately and its final objective is just the penalty
// term: 1·ΣW² + 1·ΣH² + 1·ΣH1², hand-computed below.
func selectionProblem(t *testing.T, first, second [2][2]*mat.Dense) *Fit {
	t.Helper()

	v := constDense(2, 3, 1)
	v1 := constDense(2, 2, 1)

	script := &scriptSeeder{queue: [][2]*mat.Dense{
		first[0], first[1], second[0], second[1],
	}}

	p := Problem{
		V: v, V1: v1, Rank: 2,
		A:       mat.NewDense(2, 2, nil),
		B:       mat.NewDense(3, 2, nil),
		Weights: &Weights{Gamma: 1, Gamma1: 1},
		Stop:    Termination{MaxIter: 1},
		NumRuns: 2,
		Seeder:  script,
	}
	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return f.Factorize()
}

func TestMultiRunSelection(t *testing.T) {

	// Seed A: W=0.5·1, H=1, H1=1 → objective 1 + 6 + 4 = 11.
	seedA := [2][2]*mat.Dense{
		{constDense(2, 2, 0.5), constDense(2, 3, 1)},
		{constDense(2, 2, 0.5), constDense(2, 2, 1)},
	}
	// Seed B: W=1, H=0.5·1, H1=0.5·1 → objective 4 + 1.5 + 1 = 6.5.
	seedB := [2][2]*mat.Dense{
		{constDense(2, 2, 1), constDense(2, 3, 0.5)},
		{constDense(2, 2, 1), constDense(2, 2, 0.5)},
	}

	best := selectionProblem(t, seedA, seedB)
	switch {
	case best.Run != 1:
		t.Fatalf("retained run %d, want the improving run 1", best.Run)
	case math.Abs(best.Objective-6.5) > 1e-12:
		t.Fatalf("retained objective %v, want 6.5", best.Objective)
	case best.NumIter != 0:
		t.Fatalf("converged run reports %d iterations, want 0", best.NumIter)
	}

	best = selectionProblem(t, seedB, seedA)
	switch {
	case best.Run != 0:
		t.Fatalf("retained run %d, want the first run 0", best.Run)
	case math.Abs(best.Objective-6.5) > 1e-12:
		t.Fatalf("retained objective %v, want 6.5", best.Objective)
	}

	// Ties are accepted, so the later of two equal runs wins.
	best = selectionProblem(t, seedA, seedA)
	if best.Run != 1 {
		t.Fatalf("retained run %d, want the tying run 1", best.Run)
	}
}

func TestCallbackSnapshots(t *testing.T) {

	rng := rand.New(rand.NewPCG(4, 4))
	var fits []*Fit

	p := Problem{
		V:       randDense(rng, 4, 6),
		V1:      randDense(rng, 4, 3),
		Rank:    2,
		Stop:    Termination{MaxIter: 5},
		NumRuns: 3,
		Seeder:  seed.NewRandom(rand.NewPCG(8, 8)),
		Callback: func(f *Fit) {
			fits = append(fits, f)
		},
	}
	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	best := f.Factorize()

	if len(fits) != 3 {
		t.Fatalf("callback ran %d times, want 3", len(fits))
	}
	for i, fit := range fits {
		if fit.Run != i {
			t.Fatalf("callback %d received run %d", i, fit.Run)
		}
		if fit.Name != "snmnmf" {
			t.Fatalf("fit name = %q", fit.Name)
		}
		if fit.Run == best.Run {
			// The retained result is a separate deep copy of the same state.
			switch {
			case fit.W == best.W:
				t.Fatal("retained snapshot aliases the callback snapshot")
			case !mat.Equal(fit.W, best.W) || !mat.Equal(fit.H, best.H) || !mat.Equal(fit.H1, best.H1):
				t.Fatal("retained snapshot disagrees with the callback snapshot")
			}
		}
	}
}

func TestTracking(t *testing.T) {

	rng := rand.New(rand.NewPCG(5, 5))
	hist := NewHistory()

	p := Problem{
		V:           randDense(rng, 4, 6),
		V1:          randDense(rng, 4, 3),
		Rank:        2,
		Stop:        Termination{MaxIter: 5},
		NumRuns:     2,
		Seeder:      seed.NewRandom(rand.NewPCG(9, 9)),
		Tracker:     hist,
		TrackError:  true,
		TrackFactor: true,
	}
	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Factorize()

	switch {
	case len(hist.Errors) != 2:
		t.Fatalf("tracked %d error traces, want 2", len(hist.Errors))
	case len(hist.Factors) != 2:
		t.Fatalf("tracked %d factor records, want 2", len(hist.Factors))
	}
	for run, rec := range hist.Factors {
		if len(hist.Errors[run]) != rec.NumIter {
			t.Fatalf("run %d: %d tracked errors for %d iterations", run, len(hist.Errors[run]), rec.NumIter)
		}
		if rec.W == nil || rec.H == nil || rec.H1 == nil {
			t.Fatalf("run %d: incomplete factor record", run)
		}
	}
}

// With TestConv unset every iteration is evaluated, so the tracked objective
// trace is non-increasing everywhere except possibly its final entry, where
// the regression rule terminates the run.
func TestObjectiveMonotone(t *testing.T) {

	rng := rand.New(rand.NewPCG(6, 6))
	hist := NewHistory()

	p := Problem{
		V:          randDense(rng, 6, 8),
		V1:         randDense(rng, 6, 5),
		Rank:       3,
		Stop:       Termination{MaxIter: 50},
		Seeder:     seed.NewRandom(rand.NewPCG(10, 10)),
		Tracker:    hist,
		TrackError: true,
	}
	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Factorize()

	trace := hist.Errors[0]
	for i := 1; i < len(trace)-1; i++ {
		if trace[i] > trace[i-1] {
			t.Fatalf("objective regressed at iteration %d: %v > %v", i, trace[i], trace[i-1])
		}
	}
}

func TestFactorizeNonNegative(t *testing.T) {

	rng := rand.New(rand.NewPCG(12, 12))
	p := Problem{
		V:      randDense(rng, 5, 7),
		V1:     randDense(rng, 5, 4),
		Rank:   2,
		Stop:   Termination{MaxIter: 10},
		Seeder: seed.NewRandom(rand.NewPCG(13, 13)),
	}
	f, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	fit := f.Factorize()

	switch {
	case math.IsNaN(fit.Objective):
		t.Fatal("objective is NaN")
	case minEntry(fit.W) < 0:
		t.Fatal("negative entry in fitted W")
	case minEntry(fit.H) < 0:
		t.Fatal("negative entry in fitted H")
	case minEntry(fit.H1) < 0:
		t.Fatal("negative entry in fitted H1")
	}

	// The fitted estimates must have matching shapes.
	er, ec := fit.Estimate().Dims()
	if er != 5 || ec != 7 {
		t.Fatalf("estimate is %d×%d, want 5×7", er, ec)
	}
	res, res1 := fit.Residuals(p.V, p.V1)
	if r, c := res.Dims(); r != 5 || c != 7 {
		t.Fatal("residual shape mismatch")
	}
	if r, c := res1.Dims(); r != 5 || c != 4 {
		t.Fatal("residual shape mismatch")
	}
}
