// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package adapt provides the parameters of the spike-driven inhibitory feedback
(adaptation) synapse of the adaptive LIF neuron.

Each spike adds an impulse to the feedback synapse state, which then decays
exponentially with time constant TauF.  The impulse is normalized so that
a spike train at rate f produces a mean synapse state of f, which is scaled
by Af into an inhibitory current subtracted from the input.
*/
package adapt

import (
	"math"

	"github.com/emer/alif/lif"
)

// Params are the feedback synapse parameters
type Params struct {

	// scales the feedback synapse state into an inhibitory current
	Af float64 `def:"0.001"`

	// time constant of the feedback synapse, in seconds
	TauF float64 `def:"0.01" min:"0"`

	// whether the feedback decays during the refractory period.
	// If so, the mean-feedback approximations use an effective
	// scale of Af * exp(-Tref / TauF), see EffAf.
	RefDecay bool `def:"true"`
}

func (fp *Params) Defaults() {
	fp.Af = 1e-3
	fp.TauF = 0.01
	fp.RefDecay = true
}

// Validate returns a *lif.DomainError if TauF is not strictly positive
// or Af is not a number.
func (fp *Params) Validate() error {
	if !(fp.TauF > 0) {
		return lif.NewDomainError("TauF", fp.TauF, "feedback time constant must be > 0")
	}
	if math.IsNaN(fp.Af) || math.IsInf(fp.Af, 0) {
		return lif.NewDomainError("Af", fp.Af, "feedback scale must be finite")
	}
	return nil
}

// ValidatePos is Validate that also requires a strictly positive Af,
// for methods that divide by the feedback scale.
func (fp *Params) ValidatePos() error {
	if err := fp.Validate(); err != nil {
		return err
	}
	if !(fp.Af > 0) {
		return lif.NewDomainError("Af", fp.Af, "feedback scale must be > 0")
	}
	return nil
}

// EffAf returns the effective feedback scale for mean-feedback
// approximations, given refractory period tref
func (fp *Params) EffAf(tref float64) float64 {
	if fp.RefDecay {
		return fp.Af * math.Exp(-tref/fp.TauF)
	}
	return fp.Af
}

// Decay returns the per-step decay factor exp(-dt/TauF) and its complement
// 1 - exp(-dt/TauF), the latter computed without cancellation for small dt.
func (fp *Params) Decay(dt float64) (decay, incr float64) {
	return math.Exp(-dt / fp.TauF), -math.Expm1(-dt / fp.TauF)
}
