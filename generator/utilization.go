// The utilization-vector generators (UUniFast, UScaling, UFitting), each
// producing a length-n vector of positive utilizations summing to a
// prescribed total, subject to a per-task ceiling, and the simpler
// uniform-draw catalog generator, which has no sum constraint.

package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rtsim/gedfsim/sim"
)

// UtilizationAlgorithm is the common shape of UUniFast/UScaling/UFitting:
// given a taskset utilization total, a task count, and the platform's
// fastest speed (the per-task ceiling), produce n positive utilizations
// summing to the total.
type UtilizationAlgorithm func(tasksetUtilization sim.Time, numTask int, fastestSpeed sim.Time, rng *rand.Rand) ([]sim.Time, error)

func validateUtilizationArgs(tasksetUtilization sim.Time, numTask int, fastestSpeed sim.Time) error {
	if tasksetUtilization <= 0 {
		return &sim.ValidationError{Msg: fmt.Sprintf("taskset utilization must be > 0, got %v", tasksetUtilization)}
	}
	if numTask <= 0 {
		return &sim.ValidationError{Msg: fmt.Sprintf("num_task must be > 0, got %d", numTask)}
	}
	if fastestSpeed <= 0 {
		return &sim.ValidationError{Msg: fmt.Sprintf("fastest speed must be > 0, got %v", fastestSpeed)}
	}
	return nil
}

func allWithinCeiling(us []sim.Time, ceiling sim.Time) bool {
	for _, u := range us {
		if u > ceiling {
			return false
		}
	}
	return true
}

// UUniFast draws a vector uniformly distributed on the utilization
// simplex, conditioned on its sum: iteratively peel a residual scaled by
// rand()^(1/(n-i)), rejecting and redrawing the whole vector if any
// element exceeds fastestSpeed.
func UUniFast(tasksetUtilization sim.Time, numTask int, fastestSpeed sim.Time, rng *rand.Rand) ([]sim.Time, error) {
	if err := validateUtilizationArgs(tasksetUtilization, numTask, fastestSpeed); err != nil {
		return nil, err
	}
	for {
		us := make([]sim.Time, 0, numTask)
		sumU := tasksetUtilization
		for i := 1; i < numTask; i++ {
			nextSumU := sumU * sim.Time(math.Pow(rng.Float64(), 1.0/float64(numTask-i)))
			us = append(us, sumU-nextSumU)
			sumU = nextSumU
		}
		us = append(us, sumU)
		if allWithinCeiling(us, fastestSpeed) {
			return us, nil
		}
	}
}

// UScaling samples n i.i.d. uniforms on [0, tasksetUtilization], then
// rescales the vector so its sum matches exactly.
func UScaling(tasksetUtilization sim.Time, numTask int, fastestSpeed sim.Time, rng *rand.Rand) ([]sim.Time, error) {
	if err := validateUtilizationArgs(tasksetUtilization, numTask, fastestSpeed); err != nil {
		return nil, err
	}
	for {
		us := make([]sim.Time, numTask)
		var sum sim.Time
		for i := range us {
			us[i] = sim.Time(rng.Float64()) * tasksetUtilization
			sum += us[i]
		}
		factor := tasksetUtilization / sum
		for i := range us {
			us[i] *= factor
		}
		if allWithinCeiling(us, fastestSpeed) {
			return us, nil
		}
	}
}

// UFitting walks the residual once: at each step but the last, sample
// uniformly from what remains and subtract it; the last element absorbs
// whatever residual is left.
func UFitting(tasksetUtilization sim.Time, numTask int, fastestSpeed sim.Time, rng *rand.Rand) ([]sim.Time, error) {
	if err := validateUtilizationArgs(tasksetUtilization, numTask, fastestSpeed); err != nil {
		return nil, err
	}
	for {
		us := make([]sim.Time, 0, numTask)
		remaining := tasksetUtilization
		for i := 0; i < numTask-1; i++ {
			u := sim.Time(rng.Float64()) * remaining
			remaining -= u
			us = append(us, u)
		}
		us = append(us, remaining)
		if allWithinCeiling(us, fastestSpeed) {
			return us, nil
		}
	}
}

// UniformUtilizations draws numTask i.i.d. Uniform(0, fastestSpeed)
// values with no sum constraint. Used to build the candidate task catalog
// that TaskSubsetFactory samples its taskset from, not to build a taskset
// of a prescribed total utilization directly.
func UniformUtilizations(numTask int, fastestSpeed sim.Time, rng *rand.Rand) ([]sim.Time, error) {
	if numTask <= 0 {
		return nil, &sim.ValidationError{Msg: fmt.Sprintf("num_task must be > 0, got %d", numTask)}
	}
	if fastestSpeed <= 0 {
		return nil, &sim.ValidationError{Msg: fmt.Sprintf("fastest speed must be > 0, got %v", fastestSpeed)}
	}
	us := make([]sim.Time, numTask)
	for i := range us {
		us[i] = sim.Time(rng.Float64()) * fastestSpeed
	}
	return us, nil
}
