// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fi holds tuning curves (firing rate as a function of input) in
etable.Table form, so that curves from the closed form model, the fixed point
solvers and the spiking simulation can be merged into one table, compared,
and saved as CSV for external plotting.
*/
package fi

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// LogPrec is precision for saving float values in tables
const LogPrec = 6

// Point is one point on a tuning curve
type Point struct {

	// input drive
	U float64

	// steady-state firing rate, in Hz (>= 0)
	F float64
}

// Curve is an ordered set of tuning curve points, stored in
// a table with columns U and F
type Curve struct {
	Table *etable.Table
}

// NewCurve returns a curve with n zero points
func NewCurve(name string, n int) *Curve {
	dt := &etable.Table{}
	configTable(dt, name, []string{"U", "F"}, n)
	return &Curve{Table: dt}
}

// CurveFromRates returns a curve with points (u[i], f[i])
func CurveFromRates(name string, u, f []float64) (*Curve, error) {
	if len(u) != len(f) {
		return nil, fmt.Errorf("fi.CurveFromRates: %d inputs for %d rates", len(u), len(f))
	}
	cv := NewCurve(name, len(u))
	for i := range u {
		cv.Set(i, Point{U: u[i], F: f[i]})
	}
	return cv, nil
}

func configTable(dt *etable.Table, name string, cols []string, n int) {
	dt.SetMetaData("name", name)
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{}
	for _, cn := range cols {
		sch = append(sch, etable.Column{cn, etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, n)
}

// Len returns the number of points
func (cv *Curve) Len() int {
	return cv.Table.Rows
}

// Point returns point i
func (cv *Curve) Point(i int) Point {
	return Point{U: cv.Table.CellFloat("U", i), F: cv.Table.CellFloat("F", i)}
}

// Set sets point i
func (cv *Curve) Set(i int, pt Point) {
	cv.Table.SetCellFloat("U", i, pt.U)
	cv.Table.SetCellFloat("F", i, pt.F)
}

// Points returns all points as a new slice
func (cv *Curve) Points() []Point {
	pts := make([]Point, cv.Len())
	for i := range pts {
		pts[i] = cv.Point(i)
	}
	return pts
}

// Rates returns the firing rates as a new slice
func (cv *Curve) Rates() []float64 {
	f := make([]float64, cv.Len())
	for i := range f {
		f[i] = cv.Table.CellFloat("F", i)
	}
	return f
}

// IsMonotone returns true if the rate is non-decreasing with input,
// for points in increasing order of input.
func (cv *Curve) IsMonotone() bool {
	pts := cv.Points()
	for i := 1; i < len(pts); i++ {
		if pts[i].U >= pts[i-1].U && pts[i].F < pts[i-1].F {
			return false
		}
	}
	return true
}

// WriteCSV writes the curve as comma-separated values with a header row
func (cv *Curve) WriteCSV(w io.Writer) error {
	return cv.Table.WriteCSV(w, etable.Comma, etable.Headers)
}

// Column is a named set of rates, one per input, for use in NewTable
type Column struct {
	Name string
	F    []float64
}

// NewTable returns a table with an input column U followed by one
// rate column per Column, all of len(u).
func NewTable(name string, u []float64, cols ...Column) (*etable.Table, error) {
	names := []string{"U"}
	for _, c := range cols {
		if len(c.F) != len(u) {
			return nil, fmt.Errorf("fi.NewTable: column %s has %d rates for %d inputs", c.Name, len(c.F), len(u))
		}
		names = append(names, c.Name)
	}
	dt := &etable.Table{}
	configTable(dt, name, names, len(u))
	for i, uv := range u {
		dt.SetCellFloat("U", i, uv)
		for _, c := range cols {
			dt.SetCellFloat(c.Name, i, c.F[i])
		}
	}
	return dt, nil
}
