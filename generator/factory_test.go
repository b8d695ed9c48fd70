package generator

import (
	"math/rand"
	"testing"

	"github.com/rtsim/gedfsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicTaskFactory_ImplicitDeadline(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{1.0})
	rng := rand.New(rand.NewSource(1))
	f, err := NewPeriodicTaskFactory([2]int{10, 20}, platform, true, NewTaskIDAllocator(), rng)
	require.NoError(t, err)

	task, err := f.CreateTask(0.5)
	require.NoError(t, err)
	assert.True(t, task.ImplicitDeadline())
	assert.GreaterOrEqual(t, task.Period, sim.Time(10))
	assert.LessOrEqual(t, task.Period, sim.Time(20))
	assert.InDelta(t, task.Period*0.5, task.Wcet, 1e-9)
}

func TestPeriodicTaskFactory_ExplicitDeadlineFeasibleOnFastest(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{2.0})
	rng := rand.New(rand.NewSource(7))
	f, err := NewPeriodicTaskFactory([2]int{10, 10}, platform, false, NewTaskIDAllocator(), rng)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		task, err := f.CreateTask(0.8)
		require.NoError(t, err)
		assert.LessOrEqual(t, task.Deadline, task.Period)
		assert.LessOrEqual(t, task.Wcet, platform.Fastest()*task.Deadline)
	}
}

func TestPeriodicTaskFactory_RejectsOutOfRangeUtilization(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{1.0})
	f, err := NewPeriodicTaskFactory([2]int{10, 20}, platform, true, NewTaskIDAllocator(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = f.CreateTask(0)
	assert.Error(t, err)
	_, err = f.CreateTask(2.0)
	assert.Error(t, err)
}

func TestPeriodicTaskFactory_InvalidPeriodBound(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{1.0})
	_, err := NewPeriodicTaskFactory([2]int{20, 10}, platform, true, NewTaskIDAllocator(), rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestTaskIDAllocator_Monotonic(t *testing.T) {
	a := NewTaskIDAllocator()
	ids := make([]int, 5)
	for i := range ids {
		ids[i] = a.Next()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)
}
