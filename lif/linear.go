// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "math"

// Linear is the first-order Taylor expansion of the LIF tuning curve
// around input U0: f(u) = K0 + K1*u.  It is a cheap local model, not a solver.
type Linear struct {

	// input value around which the curve was expanded (> Thr)
	U0 float64

	// intercept
	K0 float64

	// slope df/du at U0
	K1 float64
}

// Linearize returns the first-order expansion of the tuning curve around u0,
// which must exceed the threshold.
func (lp *Params) Linearize(u0 float64) (Linear, error) {
	if err := lp.Validate(); err != nil {
		return Linear{}, err
	}
	if !(u0 > lp.Thr) {
		return Linear{}, NewDomainError("u0", u0, "expansion point must exceed threshold")
	}
	return lp.linearize(u0), nil
}

func (lp *Params) linearize(u0 float64) Linear {
	isi := lp.Tref - lp.TauM*math.Log1p(-lp.Thr/u0)
	k1 := lp.TauM * lp.Thr / (isi * isi * u0 * (u0 - lp.Thr))
	return Linear{U0: u0, K0: 1/isi - k1*u0, K1: k1}
}

// Slope returns df/du of the tuning curve at u: 0 at or below threshold.
// Params must be valid.
func (lp *Params) Slope(u float64) float64 {
	if !(u > lp.Thr) {
		return 0
	}
	return lp.linearize(u).K1
}

// Rate returns the linear approximation at u (can be negative)
func (ln *Linear) Rate(u float64) float64 {
	return ln.K0 + ln.K1*u
}

// Rates returns the linear approximation for each input as a new slice,
// optionally clipping negative rates to 0.
func (ln *Linear) Rates(clip bool, u ...float64) []float64 {
	f := make([]float64, len(u))
	for i, uv := range u {
		f[i] = ln.Rate(uv)
		if clip && f[i] < 0 {
			f[i] = 0
		}
	}
	return f
}
