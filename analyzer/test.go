// Package analyzer implements the schedulability analyzer and batch
// executor (C11): the sufficient-then-exact test pipeline and the
// serial/parallel strategies that apply it across many task sets.
//
// Grounded on simrt/utils/schedulability_analyzer.py (SchedulabilityTest /
// SufficientTest / ExactTest / GlobalEDFTest / SimulationTest /
// TestFactory / SchedulabilityAnalyzer) and
// simRT/utils/schedulability_test_executor.py (ExecutionStrategy /
// ParallelStrategy / SerialStrategy / SchedulabilityTestExecutor).
package analyzer

import (
	"fmt"

	"github.com/rtsim/gedfsim/sim"
)

// SchedulabilityTest decides feasibility of a task set on a platform. The
// two production implementations are sim.GlobalEDFTest, used directly
// (sufficient), and SimulationTest (exact).
type SchedulabilityTest interface {
	Test(taskset []sim.TaskInfo, platform sim.PlatformInfo) (bool, error)
}

// SimulationTest is the exact test: it runs sim.Simulator to completion
// and reports its verdict. ShowProgress is a pass-through configuration
// field for the (out-of-scope) external progress-bar collaborator; the
// analyzer itself never renders progress.
type SimulationTest struct {
	Cutoff       sim.Time // 0 means "run to the hyper-period"
	ShowProgress bool
}

// Test runs the exact simulator.
func (t *SimulationTest) Test(taskset []sim.TaskInfo, platform sim.PlatformInfo) (bool, error) {
	s := sim.NewSimulator(taskset, platform)
	until := t.Cutoff
	if until == 0 {
		until = s.HyperPeriod()
	}
	return s.Run(until), nil
}

// TestFactory builds a named SchedulabilityTest from a parameter map, per
// spec §6's TestFactory::create(name, params) contract. Recognized names
// are "GlobalEDFTest" (param "sampling_rate" float64; a "show_progress"
// entry is not read for this test) and "SimulationTest" (param "cutoff"
// sim.Time, "show_progress" bool).
type TestFactory struct{}

// Create builds the named test. Unknown names return a ValidationError.
func (TestFactory) Create(name string, params map[string]any) (SchedulabilityTest, error) {
	switch name {
	case "GlobalEDFTest":
		samplingRate := sim.Time(1e-5)
		if v, ok := params["sampling_rate"]; ok {
			sr, err := asFloat(v)
			if err != nil {
				return nil, &sim.ValidationError{Msg: fmt.Sprintf("GlobalEDFTest sampling_rate: %v", err)}
			}
			samplingRate = sim.Time(sr)
		}
		return sim.NewGlobalEDFTest(samplingRate), nil
	case "SimulationTest":
		test := &SimulationTest{}
		if v, ok := params["cutoff"]; ok {
			cutoff, err := asFloat(v)
			if err != nil {
				return nil, &sim.ValidationError{Msg: fmt.Sprintf("SimulationTest cutoff: %v", err)}
			}
			test.Cutoff = sim.Time(cutoff)
		}
		if v, ok := params["show_progress"]; ok {
			b, ok := v.(bool)
			if !ok {
				return nil, &sim.ValidationError{Msg: "SimulationTest show_progress must be a bool"}
			}
			test.ShowProgress = b
		}
		return test, nil
	default:
		return nil, &sim.ValidationError{Msg: fmt.Sprintf("unsupported test type: %q", name)}
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
