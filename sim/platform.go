package sim

import (
	"fmt"
	"sort"
)

// Time is a rational simulated time value, shared by task periods, wcets,
// deadlines, and the engine's virtual clock. Modeled as float64, matching
// the teacher's own microsecond-resolution int64 clock widened to support
// the fractional WCET/speed arithmetic the resource model requires.
type Time = float64

// PlatformInfo is the immutable description of a heterogeneous multi-core
// platform: a speed for each of m processors. Per spec §3, the vector is
// stored sorted non-increasing and never mutated after construction.
type PlatformInfo struct {
	speeds []Time
}

// NewPlatformInfo validates and constructs a PlatformInfo. Speeds must be
// non-empty and strictly positive; the stored copy is sorted non-increasing
// regardless of input order.
func NewPlatformInfo(speeds []Time) (PlatformInfo, error) {
	if len(speeds) == 0 {
		return PlatformInfo{}, &ValidationError{Msg: "platform speed list must not be empty"}
	}
	cp := make([]Time, len(speeds))
	copy(cp, speeds)
	for _, s := range cp {
		if s <= 0 {
			return PlatformInfo{}, &ValidationError{Msg: fmt.Sprintf("processor speed must be > 0, got %v", s)}
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(cp)))
	return PlatformInfo{speeds: cp}, nil
}

// MustNewPlatformInfo is NewPlatformInfo for callers (tests, generators)
// that already know the input is valid.
func MustNewPlatformInfo(speeds []Time) PlatformInfo {
	p, err := NewPlatformInfo(speeds)
	if err != nil {
		panic(err)
	}
	return p
}

// Speeds returns a defensive copy of the non-increasing speed vector.
func (p PlatformInfo) Speeds() []Time {
	cp := make([]Time, len(p.speeds))
	copy(cp, p.speeds)
	return cp
}

// Capacity is the number of processors, i.e. the resource's holder bound.
func (p PlatformInfo) Capacity() int {
	return len(p.speeds)
}

// SpeedAt returns the speed of the processor at sorted rank i (0 = fastest).
func (p PlatformInfo) SpeedAt(rank int) Time {
	return p.speeds[rank]
}

// SM is the total platform speed, Σ speeds, used to normalize system
// utilization (GLOSSARY: "System utilization").
func (p PlatformInfo) SM() Time {
	var sum Time
	for _, s := range p.speeds {
		sum += s
	}
	return sum
}

// Fastest is the speed of the fastest processor, speed_list[0].
func (p PlatformInfo) Fastest() Time {
	return p.speeds[0]
}

// IsHomogeneous reports whether every processor runs at the same speed.
func (p PlatformInfo) IsHomogeneous() bool {
	return p.speeds[0] == p.speeds[len(p.speeds)-1]
}
