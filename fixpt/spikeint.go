// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import (
	"math"

	"github.com/emer/alif/lif"
	"github.com/emer/etable/v2/minmax"
)

// InputFromISI returns the constant input that produces a periodic spike
// train with inter-spike interval T (> Tref) in the adaptive neuron.
//
// Between spikes, the soma charges for t = T - Tref from 0 while the
// feedback synapse decays from its post-spike level s_r, which is fixed by
// requiring the train to be periodic:
//
//	U(T) = (Thr + Af * s_r * G(t)) / (1 - exp(-t/TauM))
//
// where G is the convolution of the feedback decay with the soma response.
func (sv *Solver) InputFromISI(T float64) (float64, error) {
	if err := sv.Neuron.Validate(); err != nil {
		return 0, err
	}
	if err := sv.Fback.Validate(); err != nil {
		return 0, err
	}
	if !(T > sv.Neuron.Tref) {
		return 0, lif.NewDomainError("T", T, "interval must exceed refractory period")
	}
	return sv.inputFromISI(T), nil
}

func (sv *Solver) inputFromISI(T float64) float64 {
	tauM := sv.Neuron.TauM
	tauF := sv.Fback.TauF
	t := T - sv.Neuron.Tref
	var sr float64
	if sv.Fback.RefDecay {
		sr = (1 / tauF) / -math.Expm1(-T/tauF) * math.Exp(-sv.Neuron.Tref/tauF)
	} else {
		sr = (1 / tauF) / -math.Expm1(-t/tauF)
	}
	return (sv.Neuron.Thr + sv.Fback.Af*sr*sv.convolve(t)) / -math.Expm1(-t/tauM)
}

// convolve returns G(t) = TauF/(TauF-TauM) * (exp(-t/TauF) - exp(-t/TauM)),
// or its limit (t/TauM) * exp(-t/TauM) when the time constants are equal.
// The difference is factored on the slower exponential so neither term
// overflows or cancels.
func (sv *Solver) convolve(t float64) float64 {
	tauM := sv.Neuron.TauM
	tauF := sv.Fback.TauF
	if tauF == tauM {
		return t / tauM * math.Exp(-t/tauM)
	}
	k := (tauF - tauM) / (tauM * tauF)
	var d float64
	if k > 0 {
		d = math.Exp(-t/tauF) * -math.Expm1(-k*t)
	} else {
		d = math.Exp(-t/tauM) * math.Expm1(k*t)
	}
	return tauF / (tauF - tauM) * d
}

// MinInput returns the lowest input that sustains firing at MinRate or above
func (sv *Solver) MinInput() (float64, error) {
	if err := sv.Params.Validate(); err != nil {
		return 0, err
	}
	if !(1/sv.Params.MinRate > sv.Neuron.Tref) {
		return 0, lif.NewDomainError("MinRate", sv.Params.MinRate, "minimum rate must be below 1/Tref")
	}
	return sv.InputFromISI(1 / sv.Params.MinRate)
}

// spikeInterval bisects T in [1/Rate(u), 1/MinRate] for u == U(T).
// U decreases with T, so the residual u - U(T) is increasing in T.
func (sv *Solver) spikeInterval(u float64) Result {
	fmax := sv.Neuron.Rate(u)
	tmax := 1 / sv.Params.MinRate
	if fmax < sv.Params.MinRate || !(tmax > sv.Neuron.Tref) || u < sv.inputFromISI(tmax) {
		return Result{U: u, Converged: true}
	}
	var rng minmax.F64
	rng.Set(1/fmax, tmax)
	bs := bisect(rng, sv.Params.RelTol, sv.Params.MaxIter, func(T float64) float64 {
		return (u - sv.inputFromISI(T)) / u
	})
	return Result{U: u, F: 1 / bs.X, Iters: bs.Iters, Converged: bs.Conv, Diff: bs.Diff}
}

// SpikeIntervalRate returns the spike-interval rate for input u,
// regardless of the current strategy.
func (sv *Solver) SpikeIntervalRate(u float64) (Result, error) {
	ss := *sv
	ss.Params.Strategy = SpikeInterval
	return ss.Solve(u)
}
