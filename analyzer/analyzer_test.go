package analyzer

import (
	"testing"

	"github.com/rtsim/gedfsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyTest is a test double that records whether Test was invoked, used to
// observe the analyzer's short-circuit behavior (spec §8 scenario 6).
type spyTest struct {
	verdict bool
	err     error
	calls   int
}

func (s *spyTest) Test(_ []sim.TaskInfo, _ sim.PlatformInfo) (bool, error) {
	s.calls++
	return s.verdict, s.err
}

func TestAnalyzer_ShortCircuitsOnSufficientTrue(t *testing.T) {
	suff := &spyTest{verdict: true}
	exact := &spyTest{verdict: false}
	a := &SchedulabilityAnalyzer{SufficientTest: suff, ExactTest: exact}

	res, err := a.Analyze(nil, sim.PlatformInfo{})
	require.NoError(t, err)
	require.NotNil(t, res.SuffTestResult)
	require.NotNil(t, res.ExactTestResult)
	assert.True(t, *res.SuffTestResult)
	assert.True(t, *res.ExactTestResult)
	assert.Equal(t, 0, exact.calls, "exact test must not run once the sufficient test passes")
}

func TestAnalyzer_RunsExactWhenSufficientInconclusive(t *testing.T) {
	suff := &spyTest{verdict: false}
	exact := &spyTest{verdict: true}
	a := &SchedulabilityAnalyzer{SufficientTest: suff, ExactTest: exact}

	res, err := a.Analyze(nil, sim.PlatformInfo{})
	require.NoError(t, err)
	assert.False(t, *res.SuffTestResult)
	assert.True(t, *res.ExactTestResult)
	assert.Equal(t, 1, exact.calls)
}

func TestAnalyzer_ExactOnlyLeavesSuffNil(t *testing.T) {
	exact := &spyTest{verdict: true}
	a := &SchedulabilityAnalyzer{ExactTest: exact}

	res, err := a.Analyze(nil, sim.PlatformInfo{})
	require.NoError(t, err)
	assert.Nil(t, res.SuffTestResult)
	assert.True(t, *res.ExactTestResult)
}

func TestAnalyzer_NoTestsConfiguredIsConfigurationError(t *testing.T) {
	a := &SchedulabilityAnalyzer{}
	_, err := a.Analyze(nil, sim.PlatformInfo{})
	require.Error(t, err)
	var cfgErr *sim.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
