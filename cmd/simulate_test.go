package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatformAndTasks_HappyPath(t *testing.T) {
	platform, tasks, err := parsePlatformAndTasks([]float64{1, 0.5}, []string{"2,10,10", "1,10,10"})
	require.NoError(t, err)
	assert.Equal(t, 2, platform.Capacity())
	require.Len(t, tasks, 2)
	assert.Equal(t, 2.0, tasks[0].Wcet)
	assert.Equal(t, 10.0, tasks[1].Period)
}

func TestParsePlatformAndTasks_RejectsMalformedTaskSpec(t *testing.T) {
	_, _, err := parsePlatformAndTasks([]float64{1}, []string{"1,2"})
	assert.Error(t, err)
}

func TestParsePlatformAndTasks_RejectsEmptyPlatform(t *testing.T) {
	_, _, err := parsePlatformAndTasks(nil, []string{"1,2,3"})
	assert.Error(t, err)
}

func TestParsePlatformAndTasks_PropagatesTaskValidationError(t *testing.T) {
	_, _, err := parsePlatformAndTasks([]float64{1}, []string{"-1,10,10"})
	assert.Error(t, err)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["simulate"])
	assert.True(t, names["analyze"])
	assert.True(t, names["generate"])
}
