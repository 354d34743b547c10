// Package scale maps data values onto canvas coordinates.
//
// Every scale is a plain value built from its domain and range; the same
// inputs always produce the same outputs. Domains are computed by the caller
// from the data being drawn, never cached between renders.
package scale

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linear is an affine map from [D0,D1] onto [R0,R1]. Values outside the
// domain extrapolate.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear builds a linear scale.
func NewLinear(domainMin, domainMax, rangeMin, rangeMax float64) Linear {
	return Linear{D0: domainMin, D1: domainMax, R0: rangeMin, R1: rangeMax}
}

// Apply maps x into the range. A degenerate domain maps everything to R0.
func (s Linear) Apply(x float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return s.R0
	}
	return s.R0 + (x-s.D0)/span*(s.R1-s.R0)
}

// Invert maps a range value back into the domain.
func (s Linear) Invert(y float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return s.D0
	}
	return s.D0 + (y-s.R0)/span*(s.D1-s.D0)
}

// Ticks returns n+1 evenly spaced domain values from D0 to D1.
func (s Linear) Ticks(n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	floats.Span(out, s.D0, s.D1)
	return out
}

// Sqrt maps [0,DMax] onto [R0,R1] so that area, not radius, grows linearly
// with the input.
type Sqrt struct {
	DMax   float64
	R0, R1 float64
}

// NewSqrt builds a square-root scale anchored at zero.
func NewSqrt(domainMax, rangeMin, rangeMax float64) Sqrt {
	return Sqrt{DMax: domainMax, R0: rangeMin, R1: rangeMax}
}

// Apply maps x into the range. Negative inputs clamp to zero; a zero or
// negative domain maximum maps everything to R0.
func (s Sqrt) Apply(x float64) float64 {
	if s.DMax <= 0 || x <= 0 || math.IsNaN(x) {
		return s.R0
	}
	return s.R0 + math.Sqrt(x)/math.Sqrt(s.DMax)*(s.R1-s.R0)
}

// MaxOf returns the largest value of f over items, or 0 for no items.
func MaxOf[T any](items []T, f func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	vals := make([]float64, len(items))
	for i, it := range items {
		vals[i] = f(it)
	}
	return floats.Max(vals)
}

// Extent returns the min and max of f over items; zeros for no items.
func Extent[T any](items []T, f func(T) float64) (lo, hi float64) {
	if len(items) == 0 {
		return 0, 0
	}
	vals := make([]float64, len(items))
	for i, it := range items {
		vals[i] = f(it)
	}
	return floats.Min(vals), floats.Max(vals)
}
