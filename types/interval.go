package types

import (
	"fmt"
	"math"
)

// Interval is a closed range of scalar values. An interval with Min > Max
// contains nothing.
type Interval struct {
	Min, Max float64
}

var (
	// The empty interval. Its union with any interval yields that interval.
	EmptyInterval = Interval{Min: math.Inf(1), Max: math.Inf(-1)}

	// The interval containing every real number.
	UniverseInterval = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// Create a new interval.
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Union returns the smallest interval enclosing both a and b.
func (i Interval) Union(other Interval) Interval {
	return Interval{Min: math.Min(i.Min, other.Min), Max: math.Max(i.Max, other.Max)}
}

// Contains returns true if min <= x <= max.
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds returns true if min < x < max.
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// ContainsInterval returns true if other lies entirely inside i.
func (i Interval) ContainsInterval(other Interval) bool {
	return i.Min <= other.Min && other.Max <= i.Max
}

// Clamp x to the interval bounds.
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}

// Expand widens the interval by delta on each side.
func (i Interval) Expand(delta float64) Interval {
	return Interval{Min: i.Min - delta, Max: i.Max + delta}
}

// Size returns max - min.
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// IsEmpty returns true if the interval contains no values.
func (i Interval) IsEmpty() bool {
	return !(i.Min <= i.Max)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}
