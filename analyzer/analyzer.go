// The SchedulabilityAnalyzer combines a sufficient test and an exact test
// with a short-circuit: a true sufficient verdict is a schedulability
// guarantee, so the exact simulator is never invoked in that case. See
// spec §4.9 and §8 scenario 6 ("Analyzer short-circuit").

package analyzer

import (
	"github.com/rtsim/gedfsim/sim"
)

// Result mirrors spec §6's {suff_test_result, exact_test_result}: each
// field is true, false, or nil (not run).
type Result struct {
	SuffTestResult  *bool
	ExactTestResult *bool
}

// SchedulabilityAnalyzer holds an optional sufficient test and an optional
// exact test. At least one must be set; Analyze raises a
// ConfigurationError otherwise.
type SchedulabilityAnalyzer struct {
	SufficientTest SchedulabilityTest
	ExactTest      SchedulabilityTest
}

// Analyze always runs the sufficient test if present. If it returns true,
// the exact verdict is forced true without running the exact test at all
// (the short-circuit). Otherwise the exact test runs if present.
func (a *SchedulabilityAnalyzer) Analyze(taskset []sim.TaskInfo, platform sim.PlatformInfo) (Result, error) {
	if a.SufficientTest == nil && a.ExactTest == nil {
		return Result{}, &sim.ConfigurationError{Msg: "at least one of sufficient_test or exact_test must be set"}
	}

	var res Result

	if a.SufficientTest != nil {
		v, err := a.SufficientTest.Test(taskset, platform)
		if err != nil {
			return Result{}, err
		}
		res.SuffTestResult = &v
		if v {
			exact := true
			res.ExactTestResult = &exact
			return res, nil
		}
	}

	if a.ExactTest != nil {
		v, err := a.ExactTest.Test(taskset, platform)
		if err != nil {
			return Result{}, err
		}
		res.ExactTestResult = &v
	}

	return res, nil
}
