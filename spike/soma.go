// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/goki/ki/kit"
)

// States are the integration states of a soma
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Integrating is the normal state: the membrane potential integrates input
	Integrating States = iota

	// Refractory means the soma spiked less than Tref ago: the membrane
	// potential is pinned at 0, and is released linearly within the step
	// in which the refractory period ends.
	Refractory

	StatesN
)

// Soma is the state of one simulated neuron, owned by the Integrator during a run
type Soma struct {

	// membrane potential, normalized so rest is 0
	V float64

	// remaining refractory time as of the end of the last step, in seconds -- 0 when not refractory
	Ref float64

	// feedback synapse state -- only used by the adaptive neuron
	Sf float64
}

// Init resets the soma to its initial resting state
func (sm *Soma) Init() {
	sm.V = 0
	sm.Ref = 0
	sm.Sf = 0
}

// State returns the current integration state
func (sm Soma) State() States {
	if sm.Ref > 0 {
		return Refractory
	}
	return Integrating
}
