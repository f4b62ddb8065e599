// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seed provides the initialisation strategies used to seed
// non-negative matrix factorizations.
//
// Each strategy produces an initial basis matrix W (rows×rank) and mixture
// matrix H (rank×cols) for a target matrix V. All strategies keep the seeded
// factors non-negative. The available strategies are:
//
//   - Random: factors drawn uniformly from [0,1).
//   - Fixed: caller-supplied factors, copied out on every call.
//   - NNDSVD: SVD-based structured seeding after Boutsidis and Gallopoulos.
//   - RandomC: basis columns averaged from random large-norm columns of V.
//   - RandomVCol: basis columns and mixture rows averaged from random
//     columns and rows of V.
//
// A strategy is resolved once at configuration time and then called once per
// factorization run for each dataset.
package seed

import "gonum.org/v1/gonum/mat"

// Seeder produces an initial non-negative factor pair for a target matrix.
type Seeder interface {
	// Initialize returns a fresh basis and mixture matrix for v.
	// The returned matrices are owned by the caller.
	Initialize(v mat.Matrix, rank int) (w, h *mat.Dense)
}
