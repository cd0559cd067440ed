// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fixpt finds the self-consistent steady-state firing rate of the
adaptive LIF neuron under constant input, by bisection, without simulating
a spike train.

Two strategies are provided (see Strategies).  Both return rate 0 whenever
the input cannot sustain firing, and both report an exhausted iteration
budget as a ConvergenceWarning alongside the best estimate found, never as
an error.  Each input level is solved independently, with its own bracket
and its own iteration budget.
*/
package fixpt

import (
	"fmt"
	"log/slog"

	"github.com/emer/alif/adapt"
	"github.com/emer/alif/fi"
	"github.com/emer/alif/lif"
)

// Params are the bisection parameters
type Params struct {

	// which fixed point to search for
	Strategy Strategies `def:"MeanFeedback"`

	// relative tolerance on the implied input drive, |residual| / u
	RelTol float64 `def:"0.001" min:"0"`

	// maximum bisection iterations per input level
	MaxIter int `def:"100" min:"1"`

	// lowest rate considered firing, in Hz -- sets the longest admissible
	// inter-spike interval 1/MinRate for the SpikeInterval strategy
	MinRate float64 `def:"0.01" min:"0"`
}

func (sp *Params) Defaults() {
	sp.Strategy = MeanFeedback
	sp.RelTol = 1e-3
	sp.MaxIter = 100
	sp.MinRate = 0.01
}

// Validate returns a *lif.DomainError for unusable bisection parameters
func (sp *Params) Validate() error {
	switch {
	case !(sp.RelTol > 0):
		return lif.NewDomainError("RelTol", sp.RelTol, "tolerance must be > 0")
	case sp.MaxIter < 1:
		return lif.NewDomainError("MaxIter", float64(sp.MaxIter), "need at least one iteration")
	case !(sp.MinRate > 0):
		return lif.NewDomainError("MinRate", sp.MinRate, "minimum rate must be > 0")
	case sp.Strategy < 0 || sp.Strategy >= StrategiesN:
		return lif.NewDomainError("Strategy", float64(sp.Strategy), "unknown strategy")
	}
	return nil
}

// Result is the solution for one input level
type Result struct {

	// input level
	U float64

	// steady-state rate, in Hz
	F float64

	// bisection iterations used (0 if short-circuited)
	Iters int

	// whether the tolerance was reached
	Converged bool

	// final relative residual
	Diff float64
}

// Solver finds steady-state rates of the adaptive neuron
type Solver struct {

	// neuron parameters
	Neuron lif.Params

	// feedback parameters
	Fback adapt.Params

	// bisection parameters
	Params Params

	// logger for convergence warnings -- slog.Default() if nil
	Log *slog.Logger
}

// NewSolver returns a solver with default bisection parameters
func NewSolver(nrn lif.Params, fb adapt.Params) *Solver {
	sv := &Solver{Neuron: nrn, Fback: fb}
	sv.Params.Defaults()
	return sv
}

func (sv *Solver) logger() *slog.Logger {
	if sv.Log != nil {
		return sv.Log
	}
	return slog.Default()
}

// Validate checks all parameters for the current strategy.
// MeanFeedback requires a strictly positive feedback scale, and
// SpikeInterval a non-negative one: with excitatory feedback the rate
// exceeds the LIF rate, outside the interval bracket.
func (sv *Solver) Validate() error {
	if err := sv.Neuron.Validate(); err != nil {
		return err
	}
	if err := sv.Params.Validate(); err != nil {
		return err
	}
	if sv.Params.Strategy == MeanFeedback {
		return sv.Fback.ValidatePos()
	}
	if err := sv.Fback.Validate(); err != nil {
		return err
	}
	if sv.Fback.Af < 0 {
		return lif.NewDomainError("Af", sv.Fback.Af, "feedback scale must be >= 0")
	}
	return nil
}

// Solve returns the steady-state rate for input u with the current strategy
func (sv *Solver) Solve(u float64) (Result, error) {
	if err := sv.Validate(); err != nil {
		return Result{}, err
	}
	res := sv.solve(u)
	if !res.Converged {
		sv.warn(sv.warning(res))
	}
	return res, nil
}

func (sv *Solver) solve(u float64) Result {
	if sv.Params.Strategy == SpikeInterval {
		return sv.spikeInterval(u)
	}
	return sv.meanFeedback(u)
}

func (sv *Solver) warning(res Result) ConvergenceWarning {
	return ConvergenceWarning{Kind: IterLimit, U: res.U, Est: res.F, Iters: res.Iters, Diff: res.Diff}
}

func (sv *Solver) warn(cw ConvergenceWarning) {
	sv.logger().Warn("fixed point did not converge", "strategy", sv.Params.Strategy.String(), "kind", cw.Kind.String(), "u", cw.U, "est", cw.Est, "iters", cw.Iters, "diff", cw.Diff)
}

// Rates returns the steady-state rate for each input, as a new slice,
// along with a warning for each input that did not converge.
func (sv *Solver) Rates(u ...float64) ([]float64, []ConvergenceWarning, error) {
	if err := sv.Validate(); err != nil {
		return nil, nil, err
	}
	var warns []ConvergenceWarning
	f := make([]float64, len(u))
	for i, uv := range u {
		res := sv.solve(uv)
		f[i] = res.F
		if !res.Converged {
			cw := sv.warning(res)
			sv.warn(cw)
			warns = append(warns, cw)
		}
	}
	sv.logger().Debug("fixed point rates", "strategy", sv.Params.Strategy.String(), "n", len(u), "warnings", len(warns))
	return f, warns, nil
}

// Curve is Rates returned as a tuning curve
func (sv *Solver) Curve(u ...float64) (*fi.Curve, []ConvergenceWarning, error) {
	f, warns, err := sv.Rates(u...)
	if err != nil {
		return nil, nil, err
	}
	cv, err := fi.CurveFromRates(sv.Params.Strategy.String(), u, f)
	if err != nil {
		return nil, nil, fmt.Errorf("fixpt.Curve: %w", err)
	}
	return cv, warns, nil
}
