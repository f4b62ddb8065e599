// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snmnmf

import "gonum.org/v1/gonum/mat"

// runDriver carries the working state of a single factorization run.
// The factor triple is exclusively owned by the run and mutated in place;
// every snapshot handed out is a deep copy.
type runDriver struct {
	fac *Factorizer
	run int

	w, h, h1 *mat.Dense

	iter   int
	pObj   float64
	cObj   float64
	errAvg float64
}

// Factorize runs the configured number of independent factorization runs
// and returns the snapshot of the run with the lowest final objective.
// Ties and the first run are always accepted, so later runs only replace
// the retained result on equal or better objectives.
func (f *Factorizer) Factorize() *Fit {

	log := &f.logger

	var best *Fit
	var bestObj float64

	for run := 0; run < f.numRuns; run++ {
		d := &runDriver{fac: f, run: run}
		d.seed()

		d.cObj, d.errAvg = d.objective()
		d.pObj = d.cObj
		if run == 0 {
			bestObj = d.cObj
		}
		if log.enable(LogEval) {
			log.log("run %2d at iterate %5d    obj= %12.5e    err= %12.5e\n", run, d.iter, d.cObj, d.errAvg)
		}

		for satisfied(f.stop, d.pObj, d.cObj, d.errAvg, d.iter) {
			if log.enable(LogTrace) {
				log.log("\nRUN %2d ITERATION %5d\n", run, d.iter+1)
			}
			// Between evaluation points the objective is deliberately left
			// stale; the previous value is only snapshotted when it will be
			// recomputed after the update.
			eval := f.stop.evalPoint(d.iter)
			if eval {
				d.pObj = d.cObj
			}
			d.update()
			if eval {
				d.cObj, d.errAvg = d.objective()
				if log.enable(LogEval) {
					log.log("run %2d at iterate %5d    obj= %12.5e    err= %12.5e\n", run, d.iter+1, d.cObj, d.errAvg)
				}
			}
			d.iter++
			if f.trackError {
				f.tracker.TrackError(d.cObj, run)
			}
		}

		if log.enable(LogLast) {
			log.log("run %2d stopped after %d iterations with objective %e\n", run, d.iter, d.cObj)
		}

		if f.callback != nil {
			f.callback(d.snapshot())
		}
		if f.trackFactor {
			f.tracker.TrackFactor(mat.DenseCopyOf(d.w), mat.DenseCopyOf(d.h), mat.DenseCopyOf(d.h1), d.cObj, d.iter)
		}
		if d.cObj <= bestObj || run == 0 {
			bestObj = d.cObj
			best = d.snapshot()
		}
	}
	return best
}

// seed reinitialises the working factors from the configured seeders.
// The basis produced for the second dataset is discarded: W is shared and
// retained only from the first seeding call.
func (d *runDriver) seed() {
	f := d.fac
	d.w, d.h = f.seeder.Initialize(f.v, f.rank)
	_, d.h1 = f.seeder1.Initialize(f.v1, f.rank)
}

// snapshot deep-copies the run's current state into a fitted model.
func (d *runDriver) snapshot() *Fit {
	return &Fit{
		W:         mat.DenseCopyOf(d.w),
		H:         mat.DenseCopyOf(d.h),
		H1:        mat.DenseCopyOf(d.h1),
		Objective: d.cObj,
		ErrAvg:    d.errAvg,
		NumIter:   d.iter,
		Run:       d.run,
		Name:      "snmnmf",
	}
}
