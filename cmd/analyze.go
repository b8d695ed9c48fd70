package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rtsim/gedfsim/analyzer"
)

var (
	anzSpeeds       []float64
	anzTasks        []string
	anzSamplingRate float64
	anzSkipSuff     bool
	anzSkipExact    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a literal task set: sufficient test first, exact simulation only if inconclusive",
	Run: func(cmd *cobra.Command, args []string) {
		platform, tasks, err := parsePlatformAndTasks(anzSpeeds, anzTasks)
		if err != nil {
			logrus.Fatalf("analyze: %v", err)
		}

		a := &analyzer.SchedulabilityAnalyzer{}
		factory := analyzer.TestFactory{}
		if !anzSkipSuff {
			test, err := factory.Create("GlobalEDFTest", map[string]any{"sampling_rate": anzSamplingRate})
			if err != nil {
				logrus.Fatalf("analyze: %v", err)
			}
			a.SufficientTest = test
		}
		if !anzSkipExact {
			test, err := factory.Create("SimulationTest", nil)
			if err != nil {
				logrus.Fatalf("analyze: %v", err)
			}
			a.ExactTest = test
		}

		result, err := a.Analyze(tasks, platform)
		if err != nil {
			logrus.Fatalf("analyze: %v", err)
		}

		logrus.Infof("sufficient=%s exact=%s", boolPtrString(result.SuffTestResult), boolPtrString(result.ExactTestResult))
		if result.ExactTestResult != nil && !*result.ExactTestResult {
			os.Exit(1)
		}
	},
}

func boolPtrString(b *bool) string {
	if b == nil {
		return "not-run"
	}
	if *b {
		return "true"
	}
	return "false"
}

func init() {
	analyzeCmd.Flags().Float64SliceVar(&anzSpeeds, "speed", []float64{1}, "processor speed, repeatable")
	analyzeCmd.Flags().StringArrayVar(&anzTasks, "task", nil, "task as wcet,deadline,period, repeatable")
	analyzeCmd.Flags().Float64Var(&anzSamplingRate, "sampling-rate", 1e-5, "Δ-sampling rate for the sufficient test")
	analyzeCmd.Flags().BoolVar(&anzSkipSuff, "no-sufficient", false, "skip the sufficient test")
	analyzeCmd.Flags().BoolVar(&anzSkipExact, "no-exact", false, "skip the exact simulation test")
}
