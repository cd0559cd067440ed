// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "fmt"

// DomainError reports a parameter or argument outside of the domain over which
// the neuron equations are defined, e.g., a non-positive time constant or a
// non-positive firing rate passed to the inverse tuning curve.
// It is never silently corrected.
type DomainError struct {

	// name of the offending parameter or argument
	Param string

	// offending value
	Value float64

	// what the value must satisfy
	Msg string
}

func (de *DomainError) Error() string {
	return fmt.Sprintf("domain error: %s = %g: %s", de.Param, de.Value, de.Msg)
}

// NewDomainError returns a new DomainError for given param, value and message
func NewDomainError(param string, val float64, msg string) *DomainError {
	return &DomainError{Param: param, Value: val, Msg: msg}
}
