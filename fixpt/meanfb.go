// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import (
	"github.com/emer/etable/v2/minmax"
)

// meanFeedback bisects f in [0, Rate(u)] for Input(f) + a*f == u.
// The residual is increasing in f.
func (sv *Solver) meanFeedback(u float64) Result {
	fmax := sv.Neuron.Rate(u)
	if fmax == 0 {
		return Result{U: u, Converged: true}
	}
	a := sv.Fback.EffAf(sv.Neuron.Tref)
	var rng minmax.F64
	rng.Set(0, fmax)
	bs := bisect(rng, sv.Params.RelTol, sv.Params.MaxIter, func(f float64) float64 {
		return (sv.Neuron.InputFast(f) + a*f - u) / u
	})
	return Result{U: u, F: bs.X, Iters: bs.Iters, Converged: bs.Conv, Diff: bs.Diff}
}

// MeanFeedbackRate returns the mean-feedback fixed point rate for input u,
// regardless of the current strategy.
func (sv *Solver) MeanFeedbackRate(u float64) (Result, error) {
	ss := *sv
	ss.Params.Strategy = MeanFeedback
	return ss.Solve(u)
}

// LinearRate returns the mean-feedback rate using the local linearization
// of the tuning curve at u: with f = K0 + K1*(u - a*f) and K0 + K1*u = Rate(u),
// f = Rate(u) / (1 + K1*a).  0 at or below threshold.  Params must be valid.
func (sv *Solver) LinearRate(u float64) float64 {
	f := sv.Neuron.Rate(u)
	if f == 0 {
		return 0
	}
	return f / (1 + sv.Neuron.Slope(u)*sv.Fback.EffAf(sv.Neuron.Tref))
}

// LinearRates is LinearRate for each input, as a new slice
func (sv *Solver) LinearRates(u ...float64) ([]float64, error) {
	if err := sv.Neuron.Validate(); err != nil {
		return nil, err
	}
	if err := sv.Fback.Validate(); err != nil {
		return nil, err
	}
	f := make([]float64, len(u))
	for i, uv := range u {
		f[i] = sv.LinearRate(uv)
	}
	return f, nil
}

// FeedbackRates returns the rate for input u held against each fixed
// feedback level uf: Rate(u - uf).  The fixed point is where this equals
// uf / a, for effective feedback scale a.
func (sv *Solver) FeedbackRates(u float64, uf ...float64) ([]float64, error) {
	if err := sv.Neuron.Validate(); err != nil {
		return nil, err
	}
	f := make([]float64, len(uf))
	for i, ufv := range uf {
		f[i] = sv.Neuron.Rate(u - ufv)
	}
	return f, nil
}
