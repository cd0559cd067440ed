// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package alif is the overall repository for computing and validating the
steady-state firing rate response (tuning curve) of the leaky integrate-and-fire
neuron, with and without a spike-driven inhibitory feedback (adaptation) current.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* lif: the closed form LIF tuning curve, its exact inverse, and its first-order
linearization.  This is the reference curve used by everything else.

* adapt: the feedback synapse parameters of the adaptive neuron.

* spike: the spiking integrator, which advances a batch of independent neurons by
fixed time steps, locating spike times and the end of the refractory period within
each step by interpolation.

* rate: a rate-coded approximation of the adaptive neuron, with a continuous
feedback variable driven by the rate.

* fixpt: bisection solvers for the steady-state rate of the adaptive neuron, either
from the mean feedback approximation or from the exact spike interval equation.

* sim: measures rates empirically from the spiking integrator, across a pool of
worker goroutines and optionally MPI processes.

* fi: tuning curve tables, for merging and saving curves as CSV.

* cmd/ficurve: computes all of the above curves over a range of inputs and writes
them as one table for external plotting.
*/
package alif
