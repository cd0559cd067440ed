// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/alif/lif"
)

func TestEffAf(t *testing.T) {
	fp := Params{Af: 0.1, TauF: 0.05, RefDecay: true}
	eff := fp.EffAf(0.002)
	cor := 0.1 * math.Exp(-0.002/0.05)
	if math.Abs(eff-cor) > 1e-15 {
		t.Errorf("EffAf: %v != %v", eff, cor)
	}
	fp.RefDecay = false
	if fp.EffAf(0.002) != 0.1 {
		t.Errorf("EffAf without refractory decay should be Af: %v", fp.EffAf(0.002))
	}
}

func TestDecay(t *testing.T) {
	fp := Params{}
	fp.Defaults()
	for _, dt := range []float64{1e-3, 1e-5, 1e-9} {
		dc, inc := fp.Decay(dt)
		if math.Abs(dc+inc-1) > 1e-15 {
			t.Errorf("decay + incr != 1: %v + %v", dc, inc)
		}
		// incr ~ dt/TauF to first order, without cancellation
		if rel := math.Abs(inc/(dt/fp.TauF) - 1); rel > dt/fp.TauF {
			t.Errorf("dt: %v: incr: %v, rel err vs. dt/TauF: %v", dt, inc, rel)
		}
	}
}

func TestValidate(t *testing.T) {
	var de *lif.DomainError
	fp := Params{Af: 0.1, TauF: 0}
	if err := fp.Validate(); !errors.As(err, &de) {
		t.Errorf("TauF = 0 should be a DomainError, got: %v", err)
	}
	fp = Params{Af: 0, TauF: 0.01}
	if err := fp.Validate(); err != nil {
		t.Errorf("Af = 0 is valid without feedback division: %v", err)
	}
	if err := fp.ValidatePos(); !errors.As(err, &de) || de.Param != "Af" {
		t.Errorf("Af = 0 should fail ValidatePos, got: %v", err)
	}
}
