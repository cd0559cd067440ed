// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rate provides a rate-coded (non-spiking) approximation of the adaptive
LIF neuron.  The feedback current is a continuous variable Uf that relaxes
with time constant TauF toward the effective feedback scale times the rate,
and the rate is read off the closed-form LIF tuning curve applied to the net
drive:

	Uf[i] = fdecay * Uf[i-1] + (1 - fdecay) * a * F[i-1]
	F[i]  = lif.Rate(U[i] - Uf[i])

This ignores the discrete timing of spikes, and its steady state is the
mean-feedback fixed point.
*/
package rate

import (
	"math"

	"github.com/emer/alif/adapt"
	"github.com/emer/alif/lif"
	"github.com/emer/etable/v2/minmax"
)

// Trajectory is the output of one run, with one value per step
type Trajectory struct {

	// firing rate, in Hz
	F []float64

	// feedback current subtracted from the input
	Uf []float64
}

// Len returns the number of steps
func (tr *Trajectory) Len() int {
	return len(tr.F)
}

// Steady returns the final rate, and whether the last two rates differ
// by less than tol relative to the last one.
func (tr *Trajectory) Steady(tol float64) (float64, bool) {
	n := len(tr.F)
	if n == 0 {
		return 0, false
	}
	f := tr.F[n-1]
	if n < 2 {
		return f, false
	}
	d := math.Abs(f - tr.F[n-2])
	if f == 0 {
		return f, d == 0
	}
	return f, d/f < tol
}

// Range returns the range of rates over the trajectory
func (tr *Trajectory) Range() minmax.F64 {
	mm := minmax.F64{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, f := range tr.F {
		mm.Min = math.Min(mm.Min, f)
		mm.Max = math.Max(mm.Max, f)
	}
	return mm
}

// Integrator advances the rate-coded adaptive neuron
type Integrator struct {

	// neuron parameters
	Neuron lif.Params

	// feedback parameters
	Fback adapt.Params

	// integration time step, in seconds
	Dt float64
}

// Run integrates input u, one value per step, starting from initial rate f0,
// returning newly allocated rate and feedback trajectories of len(u).
// The initial feedback is the level consistent with f0 under u[0],
// or 0 if f0 is 0.
func (ri *Integrator) Run(u []float64, f0 float64) (Trajectory, error) {
	if err := ri.Neuron.Validate(); err != nil {
		return Trajectory{}, err
	}
	if err := ri.Fback.Validate(); err != nil {
		return Trajectory{}, err
	}
	if !(ri.Dt > 0) {
		return Trajectory{}, lif.NewDomainError("Dt", ri.Dt, "time step must be > 0")
	}
	if !(f0 >= 0) {
		return Trajectory{}, lif.NewDomainError("f0", f0, "initial rate must be >= 0")
	}
	n := len(u)
	tr := Trajectory{F: make([]float64, n), Uf: make([]float64, n)}
	if n == 0 {
		return tr, nil
	}
	a := ri.Fback.EffAf(ri.Neuron.Tref)
	fdecay, fincr := ri.Fback.Decay(ri.Dt)

	tr.F[0] = f0
	if f0 > 0 {
		tr.Uf[0] = u[0] - ri.Neuron.InputFast(f0)
	}
	for i := 1; i < n; i++ {
		tr.Uf[i] = fdecay*tr.Uf[i-1] + fincr*a*tr.F[i-1]
		tr.F[i] = ri.Neuron.Rate(u[i] - tr.Uf[i])
	}
	return tr, nil
}

// RunConst runs nsteps with constant input u
func (ri *Integrator) RunConst(u float64, nsteps int, f0 float64) (Trajectory, error) {
	us := make([]float64, nsteps)
	for i := range us {
		us[i] = u
	}
	return ri.Run(us, f0)
}
