// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spike provides the event-driven spiking integrator for a batch of
independent leaky integrate-and-fire neurons, optionally with a spike-driven
inhibitory feedback (adaptation) current.

Time advances in fixed steps of Dt, but spike times are located within a step
by linear interpolation of the membrane potential across the threshold, and the
end of the refractory period releases the membrane partway through a step.
This makes the steady-state rate accurate well below the step resolution.

Neurons in a batch share parameters but never interact: each one could be
simulated alone with identical results.
*/
package spike

import (
	"errors"
	"fmt"
	"math"

	"github.com/c2h5oh/datasize"
	"github.com/emer/alif/adapt"
	"github.com/emer/alif/lif"
)

// ErrDegenerate is returned when a threshold crossing is detected on a step
// in which the membrane potential did not increase, so the crossing cannot
// be located by interpolation.
var ErrDegenerate = errors.New("degenerate spike interpolation")

// Record holds the spike times of one neuron, in seconds, strictly increasing
type Record []float64

// ISIs returns the inter-spike intervals, as a new slice (nil if < 2 spikes)
func (sr Record) ISIs() []float64 {
	if len(sr) < 2 {
		return nil
	}
	isi := make([]float64, len(sr)-1)
	for i := range isi {
		isi[i] = sr[i+1] - sr[i]
	}
	return isi
}

// Last returns a copy of the last n spike times (fewer if not enough spikes,
// none if n <= 0)
func (sr Record) Last(n int) Record {
	n = min(max(n, 0), len(sr))
	return append(Record(nil), sr[len(sr)-n:]...)
}

// Trace is the optional per-step state recording, indexed [cycle][neuron]
type Trace struct {

	// membrane potential at the end of each step
	V [][]float64

	// feedback synapse state at the end of each step -- nil for the plain neuron
	Sf [][]float64
}

// Size returns the memory used by the trace, in bytes
func (tr *Trace) Size() datasize.ByteSize {
	n := 0
	for _, v := range tr.V {
		n += len(v)
	}
	for _, v := range tr.Sf {
		n += len(v)
	}
	return datasize.ByteSize(n * 8)
}

// Integrator advances a batch of somas with shared parameters by fixed time steps
type Integrator struct {

	// neuron parameters shared by the batch
	Neuron lif.Params

	// feedback parameters -- only used if Adapt
	Fback adapt.Params

	// whether the spike-driven feedback current is simulated
	Adapt bool

	// integration time step, in seconds
	Dt float64

	// record per-step state in Trace
	RecTrace bool

	// number of steps taken since Init
	Cycle int

	// per-step state, if RecTrace
	Trace Trace

	decay  float64
	incr   float64
	fdecay float64
	fincr  float64
	somas  []Soma
	spikes []Record
}

// New returns a plain (non-adaptive) integrator, after validating parameters
func New(nrn lif.Params, dt float64) (*Integrator, error) {
	ig := &Integrator{Neuron: nrn, Dt: dt}
	if err := ig.Update(); err != nil {
		return nil, err
	}
	return ig, nil
}

// NewAdapt returns an adaptive integrator, after validating parameters
func NewAdapt(nrn lif.Params, fb adapt.Params, dt float64) (*Integrator, error) {
	ig := &Integrator{Neuron: nrn, Fback: fb, Adapt: true, Dt: dt}
	if err := ig.Update(); err != nil {
		return nil, err
	}
	return ig, nil
}

// Update validates the parameters and recomputes the per-step constants.
// Must be called after changing any parameter.
func (ig *Integrator) Update() error {
	if err := ig.Neuron.Validate(); err != nil {
		return err
	}
	if !(ig.Dt > 0) {
		return lif.NewDomainError("Dt", ig.Dt, "time step must be > 0")
	}
	ig.decay = math.Exp(-ig.Dt / ig.Neuron.TauM)
	ig.incr = -math.Expm1(-ig.Dt / ig.Neuron.TauM)
	if ig.Adapt {
		if err := ig.Fback.Validate(); err != nil {
			return err
		}
		ig.fdecay, ig.fincr = ig.Fback.Decay(ig.Dt)
	}
	return nil
}

// Init resets the batch to n resting somas with empty spike records
func (ig *Integrator) Init(n int) {
	ig.somas = make([]Soma, n)
	ig.spikes = make([]Record, n)
	ig.Cycle = 0
	ig.Trace = Trace{}
}

// N returns the number of neurons in the batch
func (ig *Integrator) N() int {
	return len(ig.somas)
}

// Time returns the simulated time at the end of the last step
func (ig *Integrator) Time() float64 {
	return float64(ig.Cycle) * ig.Dt
}

// Soma returns the current state of neuron i
func (ig *Integrator) Soma(i int) Soma {
	return ig.somas[i]
}

// Spikes returns a copy of the spike times of neuron i
func (ig *Integrator) Spikes(i int) Record {
	return append(Record(nil), ig.spikes[i]...)
}

// Step advances every neuron by one time step with input u[i] for neuron i.
// Returns an error wrapping ErrDegenerate if a spike cannot be located,
// in which case the run should be abandoned.
func (ig *Integrator) Step(u []float64) error {
	if len(u) != len(ig.somas) {
		return fmt.Errorf("spike.Step: %d inputs for %d neurons", len(u), len(ig.somas))
	}
	tend := float64(ig.Cycle+1) * ig.Dt
	for i := range ig.somas {
		sm := &ig.somas[i]
		scale := math.Min(math.Max(1-sm.Ref/ig.Dt, 0), 1)
		sm.Ref = math.Max(sm.Ref-ig.Dt, 0)

		drive := u[i]
		if ig.Adapt {
			if ig.Fback.RefDecay || scale == 1 {
				sm.Sf *= ig.fdecay
			} else {
				sm.Sf *= math.Exp(-ig.Dt * scale / ig.Fback.TauF)
			}
			drive -= ig.Fback.Af * sm.Sf
		}

		vold := sm.V
		v := ig.decay*vold + ig.incr*drive
		dv := v - vold
		v *= scale

		if v > ig.Neuron.Thr {
			if !(dv > 0) {
				return fmt.Errorf("spike.Step: neuron %d, cycle %d: %w", i, ig.Cycle, ErrDegenerate)
			}
			over := (v - ig.Neuron.Thr) / dv
			ig.spikes[i] = append(ig.spikes[i], tend-ig.Dt*over)
			v = 0
			sm.Ref = math.Max(ig.Neuron.Tref-ig.Dt*over, 0)
			if ig.Adapt {
				sm.Sf += ig.fincr / ig.Dt
			}
		}
		sm.V = v
	}
	ig.Cycle++
	if ig.RecTrace {
		ig.recTrace()
	}
	return nil
}

func (ig *Integrator) recTrace() {
	v := make([]float64, len(ig.somas))
	for i := range ig.somas {
		v[i] = ig.somas[i].V
	}
	ig.Trace.V = append(ig.Trace.V, v)
	if !ig.Adapt {
		return
	}
	sf := make([]float64, len(ig.somas))
	for i := range ig.somas {
		sf[i] = ig.somas[i].Sf
	}
	ig.Trace.Sf = append(ig.Trace.Sf, sf)
}

// RunConst runs nsteps steps with constant input u[i] for neuron i
func (ig *Integrator) RunConst(u []float64, nsteps int) error {
	for s := 0; s < nsteps; s++ {
		if err := ig.Step(u); err != nil {
			return err
		}
	}
	return nil
}

// Run runs one step per row of u, which holds the input for each neuron
// as u[step][neuron] (piecewise-constant input).
func (ig *Integrator) Run(u [][]float64) error {
	for _, us := range u {
		if err := ig.Step(us); err != nil {
			return err
		}
	}
	return nil
}

// TraceSize returns the human-readable memory footprint of the trace
func (ig *Integrator) TraceSize() string {
	return ig.Trace.Size().HumanReadable()
}
