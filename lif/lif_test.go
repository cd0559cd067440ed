// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// difTol is the relative numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-10

func TestRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	tstu := []float64{0, 0.5, 1, 1.001, 1.01, 1.1, 1.5, 2, 3, 5, 10}
	corf := []float64{0, 0, 0, 7.133934853529594, 10.604182824471232, 20.016852005162505, 41.71490687414834, 63.04000219064139, 98.9187961700029, 154.72999475512455, 243.47426203053794}

	f, err := lp.Rates(tstu...)
	if err != nil {
		t.Fatal(err)
	}
	for i := range tstu {
		if !scalar.EqualWithinAbsOrRel(f[i], corf[i], difTol, difTol) {
			t.Errorf("Rate err: idx: %v, u: %v, f: %v, cor f: %v\n", i, tstu[i], f[i], corf[i])
		}
	}
	if r := lp.Rate(tstu[9]); r != f[9] {
		t.Errorf("scalar Rate: %v != batch Rate: %v", r, f[9])
	}
}

func TestRateBelowThr(t *testing.T) {
	lp := Params{TauM: 0.01, Tref: 0.002, Thr: 1}
	for _, u := range []float64{-5, -1, 0, 0.3, 0.999999, 1} {
		if f := lp.Rate(u); f != 0 {
			t.Errorf("u: %v <= Thr should give 0, got: %v", u, f)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, lp := range []Params{
		{TauM: 0.02, Tref: 0.002, Thr: 1},
		{TauM: 0.01, Tref: 0.002, Thr: 1},
		{TauM: 0.05, Tref: 0, Thr: 2},
	} {
		tstf := []float64{10, 20, 50, 100, 250, 400}
		u, err := lp.Inputs(tstf...)
		if err != nil {
			t.Fatal(err)
		}
		f, _ := lp.Rates(u...)
		for i := range tstf {
			if u[i] <= lp.Thr {
				t.Errorf("Input(%v) = %v should exceed threshold %v", tstf[i], u[i], lp.Thr)
			}
			if !scalar.EqualWithinRel(f[i], tstf[i], 1e-8) {
				t.Errorf("round trip err: params: %+v, f: %v, Rate(Input(f)): %v\n", lp, tstf[i], f[i])
			}
		}
	}
}

func TestDomainErrors(t *testing.T) {
	bad := []Params{
		{TauM: 0, Tref: 0.002, Thr: 1},
		{TauM: -0.01, Tref: 0.002, Thr: 1},
		{TauM: 0.02, Tref: 0.002, Thr: 0},
		{TauM: 0.02, Tref: -1, Thr: 1},
		{TauM: math.NaN(), Tref: 0.002, Thr: 1},
	}
	for _, lp := range bad {
		_, err := lp.Rates(2)
		var de *DomainError
		if !errors.As(err, &de) {
			t.Errorf("params: %+v: expected DomainError, got: %v", lp, err)
		}
	}

	lp := Params{}
	lp.Defaults()
	for _, f := range []float64{0, -1} {
		if _, err := lp.Input(f); err == nil {
			t.Errorf("Input(%v) should fail", f)
		}
	}
	_, err := lp.Inputs(10, 20, 0, 30)
	var de *DomainError
	if !errors.As(err, &de) || de.Param != "f[2]" {
		t.Errorf("expected DomainError on f[2], got: %v", err)
	}
	if _, err := lp.Linearize(lp.Thr); err == nil {
		t.Errorf("Linearize at threshold should fail")
	}
}

func TestNoMutation(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	u := []float64{0.5, 2, 3}
	orig := append([]float64(nil), u...)
	f, _ := lp.Rates(u...)
	f[0] = 99
	if !floats.Equal(u, orig) {
		t.Errorf("Rates mutated its input: %v != %v", u, orig)
	}
}

func TestMonotone(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	u := floats.Span(make([]float64, 200), 0, 10)
	f, _ := lp.Rates(u...)
	for i := 1; i < len(f); i++ {
		if f[i] < f[i-1] {
			t.Errorf("not monotone at u: %v: %v < %v", u[i], f[i], f[i-1])
		}
		if f[i] > lp.MaxRate() {
			t.Errorf("rate %v exceeds max rate %v", f[i], lp.MaxRate())
		}
	}
}

func TestLinearize(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	for _, u0 := range []float64{1.1, 1.5, 2, 3, 5} {
		ln, err := lp.Linearize(u0)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinRel(ln.Rate(u0), lp.Rate(u0), 1e-12) {
			t.Errorf("linear rate at u0: %v: %v != %v", u0, ln.Rate(u0), lp.Rate(u0))
		}
		dfdu := fd.Derivative(lp.Rate, u0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
		if !scalar.EqualWithinRel(ln.K1, dfdu, 1e-5) {
			t.Errorf("slope at u0: %v: K1: %v, finite difference: %v", u0, ln.K1, dfdu)
		}
		// tangent of a concave curve lies above it
		if ln.Rate(u0+0.5) < lp.Rate(u0+0.5) {
			t.Errorf("tangent at %v below curve", u0)
		}
	}
	ln, _ := lp.Linearize(1.5)
	f := ln.Rates(true, 0, 0.1, 3)
	if f[0] != 0 || f[1] != 0 || f[2] <= 0 {
		t.Errorf("clipped rates should be 0 far below threshold: %v", f)
	}
	if g := ln.Rates(false, 0); g[0] >= 0 {
		t.Errorf("unclipped rate at 0 should be negative: %v", g[0])
	}
}
