// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import (
	"math"

	"github.com/emer/etable/v2/minmax"
)

// bisection is the outcome of one bisection search
type bisection struct {
	X     float64
	Iters int
	Diff  float64
	Conv  bool
}

// bisect searches rng for the root of resid, which must be positive above
// the root and negative below it.  Stops when |resid| < tol, returning the
// midpoint, or after maxIter iterations, returning the midpoint with the
// smallest |resid| seen.
func bisect(rng minmax.F64, tol float64, maxIter int, resid func(x float64) float64) bisection {
	best := bisection{Diff: math.Inf(1)}
	for it := 1; it <= maxIter; it++ {
		x := rng.Midpoint()
		r := resid(x)
		if math.Abs(r) < best.Diff {
			best = bisection{X: x, Iters: it, Diff: math.Abs(r)}
		}
		if math.Abs(r) < tol {
			return bisection{X: x, Iters: it, Diff: math.Abs(r), Conv: true}
		}
		if r > 0 {
			rng.Max = x
		} else {
			rng.Min = x
		}
	}
	best.Iters = maxIter
	return best
}
