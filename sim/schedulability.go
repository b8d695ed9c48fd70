// The demand-bound sufficient G-EDF test: a density-based inequality
// that, on heterogeneous multi-core platforms, can prove schedulability
// without ever running the exact simulator.

package sim

import "math"

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	g := gcd(a, b)
	return a / g * b
}

// hyperPeriod is lcm(ceil(period_i)) across the task set, the bound the
// simulator runs to and the window LOAD samples within.
func hyperPeriod(taskset []TaskInfo) Time {
	h := int64(1)
	for _, tau := range taskset {
		p := int64(math.Ceil(float64(tau.Period)))
		h = lcm(h, p)
	}
	return Time(h)
}

// DBF is the demand-bound function: the maximum execution demand task tau
// can generate within any interval of length delta. Note the asymmetry at
// delta < deadline: demand is wcet, not zero, matching the density test
// this feeds rather than a per-job deadline count.
func DBF(tau TaskInfo, delta Time) Time {
	if delta >= tau.Deadline {
		k := math.Floor(float64(delta-tau.Deadline) / float64(tau.Period))
		v := (k + 1) * tau.Wcet
		if v < 0 {
			return 0
		}
		return v
	}
	return tau.Wcet
}

func sumDBF(taskset []TaskInfo, delta Time) Time {
	var sum Time
	for _, tau := range taskset {
		sum += DBF(tau, delta)
	}
	return sum
}

// LOAD is max over 0 < delta <= H of (sum_tau DBF(tau,delta))/delta. For
// an implicit-deadline task set the maximum is attained at delta=H, so a
// single evaluation suffices; otherwise delta is sampled at step
// ceil(H*samplingRate), floored to a minimum step of 1.
func LOAD(taskset []TaskInfo, samplingRate Time) Time {
	h := hyperPeriod(taskset)

	implicit := true
	for _, tau := range taskset {
		if !tau.ImplicitDeadline() {
			implicit = false
			break
		}
	}
	if implicit {
		return sumDBF(taskset, h) / h
	}

	step := int64(math.Ceil(float64(h) * float64(samplingRate)))
	if step < 1 {
		step = 1
	}

	var load Time
	for delta := int64(1); delta <= int64(h); delta += step {
		l := sumDBF(taskset, Time(delta)) / Time(delta)
		if l > load {
			load = l
		}
	}
	return load
}

// GlobalEDFTest is the heterogeneous multi-core G-EDF density sufficient
// test. A true verdict guarantees schedulability; false is inconclusive,
// not a counter-proof.
type GlobalEDFTest struct {
	SamplingRate Time
}

// NewGlobalEDFTest builds a GlobalEDFTest with the given Δ-sampling rate
// (the upstream default is 1e-5).
func NewGlobalEDFTest(samplingRate Time) *GlobalEDFTest {
	return &GlobalEDFTest{SamplingRate: samplingRate}
}

// Test implements the inequality mu - nu*phiMax >= LOAD(taskset). Only
// meaningful for platforms with at least two processors; single-core
// platforms reject with a ValidationError since the test's premise
// (priority-ranked speed assignment across distinct cores) doesn't apply.
func (g *GlobalEDFTest) Test(taskset []TaskInfo, platform PlatformInfo) (bool, error) {
	speeds := platform.Speeds()
	if len(speeds) < 2 {
		return false, &ValidationError{Msg: "GlobalEDFTest requires a multi-core platform with at least 2 processors"}
	}
	if len(taskset) == 0 {
		return false, &ValidationError{Msg: "GlobalEDFTest requires a non-empty task set"}
	}

	var phiMax Time
	for i, tau := range taskset {
		d := tau.Density()
		if i == 0 || d > phiMax {
			phiMax = d
		}
	}

	var lambdaPi Time
	for i := 0; i < len(speeds)-1; i++ {
		var tail Time
		for _, s := range speeds[i+1:] {
			tail += s
		}
		ratio := tail / speeds[i]
		if i == 0 || ratio > lambdaPi {
			lambdaPi = ratio
		}
	}

	mu := platform.SM() - lambdaPi*phiMax

	var nu int
	for i := 0; i < len(speeds); i++ {
		var tail Time
		for _, s := range speeds[i:] {
			tail += s
		}
		if tail < mu && i+1 > nu {
			nu = i + 1
		}
	}

	load := LOAD(taskset, g.SamplingRate)
	return mu-Time(nu)*phiMax >= load, nil
}
