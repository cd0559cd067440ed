// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/emer/alif/adapt"
	"github.com/emer/alif/fixpt"
	"github.com/emer/alif/lif"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testEvaluator(af float64, adp bool) *Evaluator {
	ev := NewEvaluator(lif.Params{TauM: 0.01, Tref: 0.002, Thr: 1}, adapt.Params{Af: af, TauF: 0.05, RefDecay: true}, adp)
	ev.Log = quiet
	return ev
}

func TestPlainRate(t *testing.T) {
	ev := testEvaluator(0, false)
	ev.Neuron.TauM = 0.02
	f, cw, err := ev.Rate(5)
	if err != nil {
		t.Fatal(err)
	}
	if cw != nil {
		t.Errorf("unexpected warning: %v", cw.String())
	}
	if cor := ev.Neuron.Rate(5); !scalar.EqualWithinRel(f, cor, 0.02) {
		t.Errorf("sim rate: %v, closed form: %v", f, cor)
	}
}

func TestAdaptiveRates(t *testing.T) {
	ev := testEvaluator(0.1, true)
	u := []float64{0.5, 1.5, 2, 3, 5, 8}
	f, warns, err := ev.Rates(u...)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
	if f[0] != 0 {
		t.Errorf("sub-threshold rate: %v", f[0])
	}
	sv := fixpt.NewSolver(ev.Neuron, ev.Fback)
	sv.Params.Strategy = fixpt.SpikeInterval
	sv.Params.RelTol = 1e-8
	sv.Log = quiet
	fsi, _, _ := sv.Rates(u...)
	for i := 1; i < len(u); i++ {
		if !scalar.EqualWithinRel(f[i], fsi[i], 0.01) {
			t.Errorf("u: %v, sim: %v, spike interval: %v", u[i], f[i], fsi[i])
		}
		if f[i] < f[i-1] {
			t.Errorf("not monotone at u: %v", u[i])
		}
	}
}

func TestParallel(t *testing.T) {
	u := floats.Span(make([]float64, 12), 1.2, 6)
	seq := testEvaluator(0.1, true)
	seq.Params.NThreads = 1
	fs, _, err := seq.Rates(u...)
	if err != nil {
		t.Fatal(err)
	}
	par := testEvaluator(0.1, true)
	par.Params.NThreads = 4
	fp, _, err := par.Rates(u...)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(fs, fp) {
		t.Errorf("parallel rates differ from sequential:\n%v\n%v", fp, fs)
	}
	if len(par.ThrTimes) != 4 || len(seq.ThrTimes) != 1 {
		t.Errorf("worker timers: %d, %d", len(par.ThrTimes), len(seq.ThrTimes))
	}
	cv, _, err := par.Curve(u...)
	if err != nil || cv == nil || cv.Len() != len(u) || !cv.IsMonotone() {
		t.Fatalf("curve: %v %v", cv, err)
	}
	// timers are replaced by each call, not accumulated
	if _, _, err := par.Rates(3); err != nil || len(par.ThrTimes) != 1 {
		t.Errorf("worker timers after single input: %d %v", len(par.ThrTimes), err)
	}
}

func TestTraceSize(t *testing.T) {
	if sz := testEvaluator(0.1, true).TraceSize(100); sz != 1600 {
		t.Errorf("adaptive trace size: %v", sz)
	}
	if sz := testEvaluator(0, false).TraceSize(100); sz != 800 {
		t.Errorf("plain trace size: %v", sz)
	}
}

func TestThreads(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	if n := ep.Threads(1); n != 1 {
		t.Errorf("single input should run sequentially: %d", n)
	}
	ep.NThreads = 8
	if n := ep.Threads(3); n != 3 {
		t.Errorf("no more workers than inputs: %d", n)
	}
	if n := ep.Threads(0); n != 1 {
		t.Errorf("empty batch: %d", n)
	}
}

func TestWarnings(t *testing.T) {
	// too short to settle
	ev := testEvaluator(0.1, true)
	ev.Params.SettleTaus = 0
	ev.Params.NISI = 2
	f, cw, err := ev.Rate(3)
	if err != nil {
		t.Fatal(err)
	}
	if cw == nil || cw.Kind != fixpt.NotSteady || cw.Diff <= ev.Params.SteadyTol || cw.Est != f {
		t.Errorf("expected NotSteady warning, got: %+v", cw)
	}

	// two spikes: rate from the single interval
	ev = testEvaluator(0, false)
	ev.Params.NISI = 2.5
	f, cw, _ = ev.Rate(2)
	if cw == nil || cw.Kind != fixpt.TooFewSpikes || cw.Iters != 2 {
		t.Errorf("expected TooFewSpikes warning, got: %+v", cw)
	}
	if !scalar.EqualWithinRel(f, ev.Neuron.Rate(2), 0.01) {
		t.Errorf("rate from two spikes: %v", f)
	}

	_, warns, _ := ev.Rates(2, 3, 0.5)
	if len(warns) != 2 {
		t.Errorf("expected warnings for the two firing inputs: %v", warns)
	}
}

func TestErrors(t *testing.T) {
	var de *lif.DomainError
	ev := testEvaluator(0.1, true)
	ev.Dt = 0
	if _, _, err := ev.Rates(3); !errors.As(err, &de) {
		t.Errorf("Dt = 0 should give DomainError, got: %v", err)
	}
	ev = testEvaluator(0.1, true)
	ev.Params.NISI = 1
	if _, _, err := ev.Rate(3); !errors.As(err, &de) {
		t.Errorf("NISI = 1 should give DomainError, got: %v", err)
	}
	// a negative feedback scale is a valid model, but not a valid mean feedback estimate
	ev = testEvaluator(-0.1, true)
	f, _, err := ev.Rates(3, 0.5)
	if !errors.As(err, &de) || f == nil || f[1] != 0 {
		t.Errorf("expected per-input DomainError, got: %v %v", f, err)
	}
}
