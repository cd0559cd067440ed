// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the closed-form steady-state tuning curve of the
leaky integrate-and-fire (LIF) neuron driven by a constant input u:

	f = (Tref - TauM * ln(1 - Thr/u))^-1,  u > Thr
	    0,                                  u <= Thr

along with its exact inverse (input from rate) and a first-order local
linearization.  These serve as the reference curve for the spiking
integrator in package spike, the instantaneous rate law of the rate
integrator in package rate, and the bracket / seed for the fixed point
solvers in package fixpt.

The scalar methods (Rate, Input) assume parameters have already been
validated, and are used in inner loops.  The variadic methods (Rates, Inputs)
validate first, and accept either a single value or a whole slice, always
returning a newly allocated slice of the same length.
*/
package lif

import (
	"fmt"
	"math"
)

// Params are the neuron parameters of the LIF soma.
// Voltage is normalized so that the resting potential is 0 and
// the input u is expressed in the same units as the threshold.
type Params struct {

	// membrane time constant, in seconds
	TauM float64 `def:"0.02" min:"0"`

	// absolute refractory period following a spike, in seconds
	Tref float64 `def:"0.002" min:"0"`

	// spike threshold on the normalized membrane potential
	Thr float64 `def:"1" min:"0"`
}

func (lp *Params) Defaults() {
	lp.TauM = 0.02
	lp.Tref = 0.002
	lp.Thr = 1
}

// Validate returns a *DomainError if the parameters are outside of the
// domain of the equations: TauM and Thr must be strictly positive, Tref >= 0.
func (lp *Params) Validate() error {
	switch {
	case !(lp.TauM > 0):
		return NewDomainError("TauM", lp.TauM, "membrane time constant must be > 0")
	case !(lp.Thr > 0):
		return NewDomainError("Thr", lp.Thr, "threshold must be > 0")
	case !(lp.Tref >= 0):
		return NewDomainError("Tref", lp.Tref, "refractory period must be >= 0")
	}
	return nil
}

// MaxRate returns the saturating firing rate 1/Tref (+Inf if Tref == 0)
func (lp *Params) MaxRate() float64 {
	if lp.Tref == 0 {
		return math.Inf(1)
	}
	return 1 / lp.Tref
}

// Rate returns the steady-state firing rate for constant input u.
// Params must be valid.
func (lp *Params) Rate(u float64) float64 {
	if !(u > lp.Thr) {
		return 0
	}
	return 1 / (lp.Tref - lp.TauM*math.Log1p(-lp.Thr/u))
}

// Rates returns the steady-state firing rate for each input value,
// as a new slice.  Returns a *DomainError if params are invalid.
func (lp *Params) Rates(u ...float64) ([]float64, error) {
	if err := lp.Validate(); err != nil {
		return nil, err
	}
	f := make([]float64, len(u))
	for i, uv := range u {
		f[i] = lp.Rate(uv)
	}
	return f, nil
}

// Input returns the constant input that produces steady-state firing rate f,
// which is only defined for f > 0:
//
//	u = Thr / (1 - exp((Tref - 1/f) / TauM))
func (lp *Params) Input(f float64) (float64, error) {
	if err := lp.Validate(); err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, NewDomainError("f", f, "tuning curve is only invertible for f > 0")
	}
	return lp.input(f), nil
}

func (lp *Params) input(f float64) float64 {
	return lp.Thr / -math.Expm1((lp.Tref-1/f)/lp.TauM)
}

// Inputs returns the input for each firing rate, as a new slice.
// Every rate must be > 0.
func (lp *Params) Inputs(f ...float64) ([]float64, error) {
	if err := lp.Validate(); err != nil {
		return nil, err
	}
	u := make([]float64, len(f))
	for i, fv := range f {
		if !(fv > 0) {
			return nil, NewDomainError(fmt.Sprintf("f[%d]", i), fv, "tuning curve is only invertible for f > 0")
		}
		u[i] = lp.input(fv)
	}
	return u, nil
}

// InputFast is Input without any checking: params must be valid and f > 0.
// Used by the solvers inside their bisection loops.
func (lp *Params) InputFast(f float64) float64 {
	return lp.input(f)
}
