// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim measures steady-state firing rates empirically, by running the
spiking integrator on each input level long enough to reach steady state and
taking the rate from the last inter-spike interval.

Input levels are independent, and a batch is spread over a fixed pool of
worker goroutines, each with its own integrator, and optionally over MPI
processes.  Results are merged only after every worker is done.
*/
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/emer/alif/adapt"
	"github.com/emer/alif/fi"
	"github.com/emer/alif/fixpt"
	"github.com/emer/alif/lif"
	"github.com/emer/alif/spike"
	"github.com/emer/emergent/v2/timer"
	"github.com/emer/empi/v2/mpi"
	"gonum.org/v1/gonum/stat"
)

// Params control the run length and parallelism of the evaluation
type Params struct {

	// feedback settling time added to each adaptive run, in units of TauF
	SettleTaus float64 `def:"5" min:"0"`

	// number of expected inter-spike intervals to run for, beyond settling
	NISI float64 `def:"5" min:"2"`

	// rate estimates below this, in Hz, are reported as 0 without simulating
	MinRate float64 `def:"0.01" min:"0"`

	// maximum relative change between the last two intervals for the run to count as steady
	SteadyTol float64 `def:"0.01" min:"0"`

	// number of worker goroutines -- 0 = number of CPUs - 1
	NThreads int `def:"0" min:"0"`

	// spread input levels across MPI processes
	MPI bool
}

func (ep *Params) Defaults() {
	ep.SettleTaus = 5
	ep.NISI = 5
	ep.MinRate = 0.01
	ep.SteadyTol = 0.01
	ep.NThreads = 0
	ep.MPI = false
}

// Threads returns the number of workers to use for n input levels
func (ep *Params) Threads(n int) int {
	nthr := ep.NThreads
	if nthr <= 0 {
		nthr = runtime.NumCPU() - 1
	}
	if nthr > n {
		nthr = n
	}
	if nthr < 1 {
		nthr = 1
	}
	return nthr
}

// Evaluator runs the spiking integrator to measure tuning curves
type Evaluator struct {

	// neuron parameters
	Neuron lif.Params

	// feedback parameters -- only used if Adapt
	Fback adapt.Params

	// whether the neuron has spike-driven feedback
	Adapt bool

	// integration time step, in seconds
	Dt float64 `def:"0.0001"`

	// run length and parallelism
	Params Params

	// fixed point search used to estimate the rate for sizing adaptive runs
	Solver fixpt.Params

	// logger -- slog.Default() if nil
	Log *slog.Logger

	// timers for each worker in the last Rates call
	ThrTimes []timer.Time `view:"-"`
}

// NewEvaluator returns an evaluator with default parameters
func NewEvaluator(nrn lif.Params, fb adapt.Params, adp bool) *Evaluator {
	ev := &Evaluator{Neuron: nrn, Fback: fb, Adapt: adp, Dt: 1e-4}
	ev.Params.Defaults()
	ev.Solver.Defaults()
	return ev
}

func (ev *Evaluator) logger() *slog.Logger {
	if ev.Log != nil {
		return ev.Log
	}
	return slog.Default()
}

// Validate checks all parameters
func (ev *Evaluator) Validate() error {
	if err := ev.Neuron.Validate(); err != nil {
		return err
	}
	if !(ev.Dt > 0) {
		return lif.NewDomainError("Dt", ev.Dt, "time step must be > 0")
	}
	if !(ev.Params.NISI >= 2) {
		return lif.NewDomainError("NISI", ev.Params.NISI, "need at least 2 intervals")
	}
	if !(ev.Params.SettleTaus >= 0) {
		return lif.NewDomainError("SettleTaus", ev.Params.SettleTaus, "settling time must be >= 0")
	}
	if ev.Adapt {
		if err := ev.Fback.Validate(); err != nil {
			return err
		}
		return ev.Solver.Validate()
	}
	return nil
}

// Estimate returns the numeric rate estimate used to size the run for u:
// the closed form rate, or the mean feedback fixed point if adaptive.
func (ev *Evaluator) Estimate(u float64) (float64, error) {
	if !ev.Adapt || ev.Fback.Af == 0 {
		return ev.Neuron.Rate(u), nil
	}
	sv := fixpt.Solver{Neuron: ev.Neuron, Fback: ev.Fback, Params: ev.Solver, Log: ev.Log}
	res, err := sv.MeanFeedbackRate(u)
	return res.F, err
}

// RunSteps returns the number of integration steps for a run with
// estimated rate est
func (ev *Evaluator) RunSteps(est float64) int {
	run := ev.Params.NISI / est
	if ev.Adapt {
		run += ev.Params.SettleTaus * ev.Fback.TauF
	}
	return int(math.Ceil(run / ev.Dt))
}

// TraceSize returns the memory a per-step trace of an nsteps run would need,
// for the membrane potential and the feedback state if adaptive
func (ev *Evaluator) TraceSize(nsteps int) datasize.ByteSize {
	nvar := 1
	if ev.Adapt {
		nvar = 2
	}
	return datasize.ByteSize(8 * nvar * nsteps)
}

// Rate measures the steady-state rate for a single input level
func (ev *Evaluator) Rate(u float64) (float64, *fixpt.ConvergenceWarning, error) {
	if err := ev.Validate(); err != nil {
		return 0, nil, err
	}
	return ev.rate(u)
}

func (ev *Evaluator) rate(u float64) (float64, *fixpt.ConvergenceWarning, error) {
	est, err := ev.Estimate(u)
	if err != nil {
		return 0, nil, err
	}
	if !(est >= ev.Params.MinRate) {
		return 0, nil, nil
	}
	var ig *spike.Integrator
	if ev.Adapt {
		ig, err = spike.NewAdapt(ev.Neuron, ev.Fback, ev.Dt)
	} else {
		ig, err = spike.New(ev.Neuron, ev.Dt)
	}
	if err != nil {
		return 0, nil, err
	}
	ig.Init(1)
	nsteps := ev.RunSteps(est)
	if err := ig.RunConst([]float64{u}, nsteps); err != nil {
		return 0, nil, err
	}
	sr := ig.Spikes(0)
	ev.logger().Debug("sim run", "u", u, "est", est, "steps", nsteps, "spikes", len(sr), "trace", ev.TraceSize(nsteps).HumanReadable())

	isi := sr.Last(3).ISIs()
	switch len(isi) {
	case 0:
		return 0, &fixpt.ConvergenceWarning{Kind: fixpt.TooFewSpikes, U: u, Iters: len(sr)}, nil
	case 1:
		f := 1 / isi[0]
		return f, &fixpt.ConvergenceWarning{Kind: fixpt.TooFewSpikes, U: u, Est: f, Iters: len(sr)}, nil
	}
	f := 1 / isi[1]
	diff := math.Abs(isi[0]-isi[1]) / isi[0]
	if diff > ev.Params.SteadyTol {
		return f, &fixpt.ConvergenceWarning{Kind: fixpt.NotSteady, U: u, Est: f, Iters: len(sr), Diff: diff}, nil
	}
	return f, nil, nil
}

// Rates measures the steady-state rate for each input, as a new slice,
// with any convergence warnings.  Input levels that fail leave a rate of 0
// and contribute to the returned error, without stopping the others.
// With Params.MPI, each process computes its share of the inputs and the
// rates are summed across processes: warnings and errors are only
// reported by the process that computed them.
// Not safe for concurrent calls on the same Evaluator, which stores the
// worker timers in ThrTimes once all workers are done.
func (ev *Evaluator) Rates(u ...float64) ([]float64, []fixpt.ConvergenceWarning, error) {
	if err := ev.Validate(); err != nil {
		return nil, nil, err
	}
	n := len(u)
	idxs := ev.indexes(n)
	f := make([]float64, n)
	warns := make([]*fixpt.ConvergenceWarning, n)
	errs := make([]error, n)

	eval := func(i int) {
		var err error
		f[i], warns[i], err = ev.rate(u[i])
		if err != nil {
			errs[i] = fmt.Errorf("sim: u[%d] = %g: %w", i, u[i], err)
		}
	}

	nthr := ev.Params.Threads(len(idxs))
	thrTimes := make([]timer.Time, nthr)
	if nthr <= 1 {
		thrTimes[0].Start()
		for _, i := range idxs {
			eval(i)
		}
		thrTimes[0].Stop()
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for th := 0; th < nthr; th++ {
			wg.Add(1)
			go func(th int) {
				defer wg.Done()
				for i := range jobs {
					thrTimes[th].Start()
					eval(i)
					thrTimes[th].Stop()
				}
			}(th)
		}
		for _, i := range idxs {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	if ev.Params.MPI && mpi.WorldSize() > 1 {
		if err := allSum(f); err != nil {
			return nil, nil, err
		}
	}

	var wl []fixpt.ConvergenceWarning
	for _, w := range warns {
		if w == nil {
			continue
		}
		ev.logger().Warn("sim rate not steady", "kind", w.Kind.String(), "u", w.U, "est", w.Est, "spikes", w.Iters, "diff", w.Diff)
		wl = append(wl, *w)
	}
	ev.ThrTimes = thrTimes
	ev.TimerReport()
	return f, wl, errors.Join(errs...)
}

// indexes returns the input indexes computed by this process
func (ev *Evaluator) indexes(n int) []int {
	rank, size := 0, 1
	if ev.Params.MPI {
		rank, size = mpi.WorldRank(), mpi.WorldSize()
	}
	idxs := make([]int, 0, n/size+1)
	for i := rank; i < n; i += size {
		idxs = append(idxs, i)
	}
	return idxs
}

// allSum sums f across all MPI processes, in place
func allSum(f []float64) error {
	comm, err := mpi.NewComm(nil)
	if err != nil {
		return err
	}
	sum := make([]float64, len(f))
	if err := comm.AllReduceF64(mpi.OpSum, sum, f); err != nil {
		return err
	}
	copy(f, sum)
	return nil
}

// Curve is Rates returned as a tuning curve
func (ev *Evaluator) Curve(u ...float64) (*fi.Curve, []fixpt.ConvergenceWarning, error) {
	f, warns, err := ev.Rates(u...)
	if f == nil {
		return nil, nil, err
	}
	cv, cerr := fi.CurveFromRates("Sim", u, f)
	if cerr != nil {
		return nil, nil, cerr
	}
	return cv, warns, err
}

// TimerReport logs the time spent in each worker during the last Rates call
func (ev *Evaluator) TimerReport() {
	if len(ev.ThrTimes) == 0 {
		return
	}
	secs := make([]float64, len(ev.ThrTimes))
	tot := 0.0
	for th := range ev.ThrTimes {
		secs[th] = ev.ThrTimes[th].TotalSecs()
		tot += secs[th]
	}
	ev.logger().Debug("sim timer report", "threads", len(secs), "total secs", tot, "mean secs", stat.Mean(secs, nil))
}
