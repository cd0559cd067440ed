// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/emer/alif/adapt"
	"github.com/emer/alif/fixpt"
	"github.com/emer/alif/lif"
	"github.com/emer/alif/sim"
)

// Config has the parameters for computing the tuning curves,
// read from config.toml and command-line flags
type Config struct {

	// neuron parameters
	Neuron lif.Params

	// feedback parameters
	Fback adapt.Params

	// fixed point solver parameters
	Solver fixpt.Params

	// spiking simulation parameters
	Sim sim.Params

	// simulation time step, in seconds
	Dt float64 `default:"0.0001"`

	// lowest input level
	UMin float64 `default:"0"`

	// highest input level
	UMax float64 `default:"8"`

	// number of input levels, evenly spaced from UMin to UMax
	NU int `default:"41" min:"2"`

	// skip the spiking simulation, which is much slower than the rest
	NoSim bool

	// file to write the tuning curve table to, as CSV -- stdout if empty
	Out string `default:"ficurve.csv"`

	// log debug messages, including run sizes and worker timing
	Debug bool
}

// Defaults sets the parameter struct defaults, which are not
// covered by default tags
func (cfg *Config) Defaults() {
	cfg.Neuron.Defaults()
	cfg.Fback.Defaults()
	cfg.Solver.Defaults()
	cfg.Sim.Defaults()
}
