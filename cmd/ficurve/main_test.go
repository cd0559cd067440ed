// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emer/alif/fi"
	"github.com/emer/etable/v2/etable"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCurves(t *testing.T) {
	cfg := &Config{}
	cfg.Defaults()
	cfg.Dt = 1e-4
	cfg.NoSim = true
	u := floats.Span(make([]float64, 9), 0, 8)
	cols, err := curves(cfg, u)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"LIF", "MeanFeedback", "SpikeInterval", "Linear", "RateInt"}
	if len(cols) != len(names) {
		t.Fatalf("columns: %d", len(cols))
	}
	for i, c := range cols {
		if c.Name != names[i] || len(c.F) != len(u) {
			t.Errorf("column %d: %s, len %d", i, c.Name, len(c.F))
		}
		if c.F[0] != 0 || c.F[8] <= 0 {
			t.Errorf("%s: rates: %v", c.Name, c.F)
		}
	}
	// the rate integrator settles on the mean feedback fixed point
	if !scalar.EqualWithinRel(cols[4].F[8], cols[1].F[8], 0.01) {
		t.Errorf("rate integrator: %v, mean feedback: %v", cols[4].F[8], cols[1].F[8])
	}

	dt, err := fi.NewTable("FICurve", u, cols...)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := dt.WriteCSV(&b, etable.Comma, etable.Headers); err != nil {
		t.Fatal(err)
	}
	if hdr := strings.SplitN(b.String(), "\n", 2)[0]; !strings.Contains(hdr, "SpikeInterval") {
		t.Errorf("header: %v", hdr)
	}
}
