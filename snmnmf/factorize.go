// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snmnmf implements sparse network-regularized multiple non-negative
// matrix factorization (SNMNMF).
//
// The algorithm for this method is described in:
//
//	S. Zhang, Q. Li, J. Liu, X. J. Zhou (2011) 'A novel computational
//	framework for simultaneous integration of multiple types of genomic data
//	to identify microRNA-gene regulatory modules.'
//	Bioinformatics 27(13):i401-i409.
//
// Two non-negative datasets V (s×m) and V1 (s×n) measured on the same s
// samples are jointly factored into a common basis W (s×r) and two mixture
// matrices H (r×m) and H1 (r×n). Prior knowledge enters through two
// non-negative adjacency matrices: A (n×n) over the columns of V1 and
// B (m×n) linking the columns of V to the columns of V1. The factors are
// refined with multiplicative update rules, which keep them non-negative
// as long as the inputs are non-negative and no denominator vanishes.
package snmnmf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/factorize/seed"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print one summary line per completed run
	LogLast LogLevel = 0
	// LogEval print objective and relative error at every evaluation point
	LogEval LogLevel = 1
	// LogTrace print a header for every iteration
	LogTrace LogLevel = 2
)

// Logger handles logging output for the factorization.
// Note the writer must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

const (
	// defaultWeight is the default value of every regularization weight.
	defaultWeight = 0.01
	// priorDensity is the density of the generated prior networks when the
	// caller supplies none.
	priorDensity = 0.7
	// defaultMaxIter bounds the iteration count when no limit is configured.
	defaultMaxIter = 30
	// convErrTol is the averaged relative error below which a run is
	// considered converged.
	convErrTol = 1e-5
)

// ErrShapeMismatch reports that the two datasets disagree on their shared
// sample dimension. It is detected before any matrix work begins.
var ErrShapeMismatch = errors.New("snmnmf: input matrices must share their row count")

// Weights holds the regularization weights of the objective.
type Weights struct {
	// Gamma limits the growth of the basis matrix W.
	Gamma float64
	// Gamma1 limits the growth of the mixture matrices H and H1.
	Gamma1 float64
	// Lamb weights the must-link constraints of the prior network A.
	Lamb float64
	// Lamb1 weights the must-link constraints of the prior network B.
	Lamb1 float64
}

// DefaultWeights returns the weights used when a Problem carries none.
func DefaultWeights() Weights {
	return Weights{
		Gamma:  defaultWeight,
		Gamma1: defaultWeight,
		Lamb:   defaultWeight,
		Lamb1:  defaultWeight,
	}
}

// Termination specifies the stopping criteria for the factorization loop.
type Termination struct {
	// The iteration stops when the number of iterations reaches the limit.
	// Zero selects a default budget of 30 iterations.
	MaxIter int
	// The iteration stops when the objective improvement of one evaluation
	// falls below this value. Zero disables the criterion.
	MinResiduals float64
	// TestConv spaces out objective evaluations: the objective and relative
	// error are only recomputed every TestConv-th iteration, and no stopping
	// rule other than the spacing itself is consulted in between.
	// Zero evaluates every iteration.
	TestConv int
}

// evalPoint reports whether the objective is recomputed at this iteration.
func (t Termination) evalPoint(iter int) bool {
	return t.TestConv <= 0 || iter%t.TestConv == 0
}

// Problem specifies a joint factorization of two datasets.
type Problem struct {
	// V is the first dataset of shape s×m.
	V mat.Matrix
	// V1 is the second dataset of shape s×n.
	// It must share its row count with V.
	V1 mat.Matrix
	// Rank is the number of latent components shared by both datasets.
	Rank int

	// A is the prior network over the columns of V1 (n×n, non-negative).
	// When nil a random sparse network of density 0.7 is generated.
	A mat.Matrix
	// B is the prior bipartite network linking the columns of V to the
	// columns of V1 (m×n, non-negative). Same default policy as A.
	B mat.Matrix

	// Weights are the regularization weights.
	// When nil every weight defaults to 0.01.
	Weights *Weights
	// Stop holds the stopping criteria.
	Stop Termination
	// NumRuns is the number of independent factorization runs.
	// The run with the lowest final objective is retained.
	// Zero means a single run.
	NumRuns int

	// Seeder initialises W and H from V at the start of every run.
	// When nil a Random seeder is used.
	Seeder seed.Seeder
	// Seeder1 initialises H1 from V1; the basis it produces is discarded.
	// When nil Seeder is used for both datasets.
	Seeder1 seed.Seeder

	// Tracker observes the factorization when tracking is enabled.
	// When nil a no-op tracker is used.
	Tracker Tracker
	// TrackError records the objective value after every iteration.
	TrackError bool
	// TrackFactor records the final factors of every run.
	TrackFactor bool

	// Callback, when set, is invoked once per completed run with a snapshot
	// of that run's final state.
	Callback func(*Fit)
}

// New validates the problem and creates a Factorizer for it.
func (p *Problem) New(logger *Logger) (f *Factorizer, err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stderr
	}

	if p.V == nil || p.V1 == nil {
		return nil, errors.New("both datasets are required")
	}
	s, m := p.V.Dims()
	s1, n := p.V1.Dims()
	if s != s1 {
		return nil, fmt.Errorf("%w: V has %d rows, V1 has %d", ErrShapeMismatch, s, s1)
	}

	weights := DefaultWeights()
	if p.Weights != nil {
		weights = *p.Weights
	}
	stop := p.Stop
	if stop.MaxIter == 0 {
		stop.MaxIter = defaultMaxIter
	}
	numRuns := max(p.NumRuns, 1)

	switch {
	case p.Rank < 1:
		err = errors.New("rank must greater than 0")
	case weights.Gamma < 0 || weights.Gamma1 < 0:
		err = errors.New("growth penalties must not less than 0")
	case weights.Lamb < 0 || weights.Lamb1 < 0:
		err = errors.New("network weights must not less than 0")
	case stop.MaxIter < 0 || stop.TestConv < 0 || stop.MinResiduals < 0:
		err = errors.New("stopping criteria must not less than 0")
	}
	if err != nil {
		return
	}

	a := p.A
	if a == nil {
		a = sparse.Random(sparse.CSRFormat, n, n, priorDensity)
	} else if ar, ac := a.Dims(); ar != n || ac != n {
		return nil, fmt.Errorf("prior network A must be %d×%d", n, n)
	}
	b := p.B
	if b == nil {
		b = sparse.Random(sparse.CSRFormat, m, n, priorDensity)
	} else if br, bc := b.Dims(); br != m || bc != n {
		return nil, fmt.Errorf("prior network B must be %d×%d", m, n)
	}

	seeder := p.Seeder
	if seeder == nil {
		seeder = seed.NewRandom(nil)
	}
	seeder1 := p.Seeder1
	if seeder1 == nil {
		seeder1 = seeder
	}
	tracker := p.Tracker
	if tracker == nil {
		tracker = noopTracker{}
	}

	f = &Factorizer{
		v: p.V, v1: p.V1,
		a: a, b: b,
		s: s, m: m, n: n,
		rank:        p.Rank,
		weights:     weights,
		stop:        stop,
		numRuns:     numRuns,
		seeder:      seeder,
		seeder1:     seeder1,
		tracker:     tracker,
		trackError:  p.TrackError,
		trackFactor: p.TrackFactor,
		callback:    p.Callback,
		logger:      *logger,
	}
	return
}

// Factorizer is a validated, immutable factorization specification.
// One Factorizer may be reused for repeated Factorize calls.
type Factorizer struct {
	v, v1 mat.Matrix
	a, b  mat.Matrix

	s, m, n int
	rank    int

	weights Weights
	stop    Termination
	numRuns int

	seeder, seeder1 seed.Seeder

	tracker     Tracker
	trackError  bool
	trackFactor bool
	callback    func(*Fit)

	logger Logger
}
