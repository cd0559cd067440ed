// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import (
	"fmt"

	"github.com/goki/ki/kit"
)

// Strategies are the fixed point search strategies
type Strategies int32

//go:generate stringer -type=Strategies

var KiT_Strategies = kit.Enums.AddEnum(StrategiesN, kit.NotBitFlag, nil)

func (ev Strategies) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Strategies) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// MarshalText and UnmarshalText allow strategies to be named in config files
func (ev Strategies) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }
func (ev *Strategies) UnmarshalText(b []byte) error { return ev.FromString(string(b)) }

const (
	// MeanFeedback bisects on the rate f for the fixed point of the
	// mean feedback approximation: Input(f) + a*f == u, where a is the
	// effective feedback scale.  Fast, but ignores the timing of the
	// feedback within the inter-spike interval.
	MeanFeedback Strategies = iota

	// SpikeInterval bisects on the inter-spike interval T for the root of
	// u == U(T), the exact input producing a periodic spike train with
	// interval T when both the soma and the feedback synapse decay
	// exponentially between spikes.
	SpikeInterval

	StrategiesN
)

// WarnKinds are the kinds of non-fatal convergence problems
type WarnKinds int32

//go:generate stringer -type=WarnKinds

var KiT_WarnKinds = kit.Enums.AddEnum(WarnKindsN, kit.NotBitFlag, nil)

func (ev WarnKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *WarnKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// IterLimit means a bisection used its whole iteration budget
	// without reaching the tolerance
	IterLimit WarnKinds = iota

	// NotSteady means the last two inter-spike intervals of a simulation
	// differ by more than the steady-state tolerance
	NotSteady

	// TooFewSpikes means a simulation produced fewer than three spikes
	TooFewSpikes

	WarnKindsN
)

// ConvergenceWarning reports a rate that was returned without meeting its
// convergence criterion.  The rate is still the best available estimate.
type ConvergenceWarning struct {

	// what went wrong
	Kind WarnKinds

	// input level
	U float64

	// estimated rate returned for this input
	Est float64

	// bisection iterations used, or spikes recorded for simulation warnings
	Iters int

	// remaining relative difference: bisection residual or relative ISI change
	Diff float64
}

func (cw *ConvergenceWarning) String() string {
	return fmt.Sprintf("%s: u: %g  est: %g  iters: %d  diff: %g", cw.Kind, cw.U, cw.Est, cw.Iters, cw.Diff)
}
