// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ficurve computes the steady-state tuning curve of the adaptive LIF neuron
// with each of the available methods, and writes them as one CSV table
// for external plotting: the closed form LIF curve without feedback,
// the mean feedback and spike interval fixed points, the linearized mean
// feedback curve, the rate integrator steady state, and the spiking
// simulation.
package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emer/alif/fi"
	"github.com/emer/alif/fixpt"
	"github.com/emer/alif/rate"
	"github.com/emer/alif/sim"
	"github.com/emer/emergent/v2/econfig"
	"github.com/emer/empi/v2/mpi"
	"github.com/emer/etable/v2/etable"
	"github.com/lmittmann/tint"
	"gonum.org/v1/gonum/floats"
)

func main() {
	mpi.Init()
	err := run()
	mpi.Finalize()
	if err != nil {
		slog.Error("ficurve failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := &Config{}
	cfg.Defaults()
	if _, err := econfig.Config(cfg, "config.toml"); err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))

	u := floats.Span(make([]float64, cfg.NU), cfg.UMin, cfg.UMax)
	cols, err := curves(cfg, u)
	if err != nil {
		return err
	}
	dt, err := fi.NewTable("FICurve", u, cols...)
	if err != nil {
		return err
	}
	if mpi.WorldRank() > 0 {
		return nil
	}
	return writeTable(dt, cfg.Out)
}

// curves computes each of the rate columns for inputs u
func curves(cfg *Config, u []float64) ([]fi.Column, error) {
	flif, err := cfg.Neuron.Rates(u...)
	if err != nil {
		return nil, err
	}
	cols := []fi.Column{{Name: "LIF", F: flif}}

	sv := &fixpt.Solver{Neuron: cfg.Neuron, Fback: cfg.Fback, Params: cfg.Solver}
	for _, str := range []fixpt.Strategies{fixpt.MeanFeedback, fixpt.SpikeInterval} {
		sv.Params.Strategy = str
		f, warns, err := sv.Rates(u...)
		if err != nil {
			return nil, err
		}
		if len(warns) > 0 {
			mpi.Printf("%v: %d input levels did not converge\n", str, len(warns))
		}
		cols = append(cols, fi.Column{Name: str.String(), F: f})
	}
	flin, err := sv.LinearRates(u...)
	if err != nil {
		return nil, err
	}
	cols = append(cols, fi.Column{Name: "Linear", F: flin})

	frate, err := rateSteady(cfg, u)
	if err != nil {
		return nil, err
	}
	cols = append(cols, fi.Column{Name: "RateInt", F: frate})

	if cfg.NoSim {
		return cols, nil
	}
	ev := &sim.Evaluator{Neuron: cfg.Neuron, Fback: cfg.Fback, Adapt: true, Dt: cfg.Dt, Params: cfg.Sim, Solver: cfg.Solver}
	st := time.Now()
	fsim, warns, err := ev.Rates(u...)
	if err != nil {
		return nil, err
	}
	mpi.Printf("Sim: %d input levels in %v, %d not steady\n", len(u), time.Since(st), len(warns))
	return append(cols, fi.Column{Name: "Sim", F: fsim}), nil
}

// rateSteady returns the final rate of the rate integrator for each input,
// run for 20 feedback time constants from rest
func rateSteady(cfg *Config, u []float64) ([]float64, error) {
	ri := &rate.Integrator{Neuron: cfg.Neuron, Fback: cfg.Fback, Dt: cfg.Dt}
	nsteps := int(20 * cfg.Fback.TauF / cfg.Dt)
	f := make([]float64, len(u))
	for i, uv := range u {
		tr, err := ri.RunConst(uv, nsteps, 0)
		if err != nil {
			return nil, err
		}
		var ok bool
		f[i], ok = tr.Steady(1e-6)
		if !ok {
			slog.Warn("rate integrator not steady", "u", uv, "range", tr.Range().Range())
		}
	}
	return f, nil
}

func writeTable(dt *etable.Table, fnm string) error {
	var w io.Writer = os.Stdout
	if fnm != "" {
		fp, err := os.Create(fnm)
		if err != nil {
			return err
		}
		defer fp.Close()
		w = fp
	}
	if err := dt.WriteCSV(w, etable.Comma, etable.Headers); err != nil {
		return err
	}
	slog.Info("wrote tuning curves", "file", fnm, "rows", dt.Rows, "cols", len(dt.Cols))
	return nil
}
