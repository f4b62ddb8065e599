// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import "gonum.org/v1/gonum/mat"

// Tracker observes the progress of a factorization.
// Implementations are invoked synchronously and must not block; failures
// inside a tracker propagate directly to the caller of Factorize.
type Tracker interface {
	// TrackError records the objective value after one iteration of the
	// given run. Between evaluation points the recorded value is the stale
	// objective of the last evaluation.
	TrackError(obj float64, run int)
	// TrackFactor records the final factors of one completed run together
	// with its final objective and iteration count. The matrices are owned
	// by the tracker.
	TrackFactor(w, h, h1 *mat.Dense, finalObj float64, nIter int)
}

type noopTracker struct{}

func (noopTracker) TrackError(float64, int) {}

func (noopTracker) TrackFactor(*mat.Dense, *mat.Dense, *mat.Dense, float64, int) {}

// FactorRecord is the final state of one tracked run.
type FactorRecord struct {
	W, H, H1 *mat.Dense
	FinalObj float64
	NumIter  int
}

// History is a Tracker that retains everything it observes.
// It is mostly useful across multiple runs.
type History struct {
	// Errors holds the per-run objective traces, indexed by run.
	Errors [][]float64
	// Factors holds the final state of every tracked run, in run order.
	Factors []FactorRecord
}

// NewHistory creates an empty History tracker.
func NewHistory() *History { return new(History) }

// TrackError appends obj to the trace of the given run.
func (hist *History) TrackError(obj float64, run int) {
	for len(hist.Errors) <= run {
		hist.Errors = append(hist.Errors, nil)
	}
	hist.Errors[run] = append(hist.Errors[run], obj)
}

// TrackFactor appends the final state of a completed run.
func (hist *History) TrackFactor(w, h, h1 *mat.Dense, finalObj float64, nIter int) {
	hist.Factors = append(hist.Factors, FactorRecord{
		W: w, H: h, H1: h1,
		FinalObj: finalObj,
		NumIter:  nIter,
	})
}
