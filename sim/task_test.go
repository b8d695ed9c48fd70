package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskInfo_Valid(t *testing.T) {
	ti, err := NewTaskInfo(0, 25, 50, 50, 1.0)
	require.NoError(t, err)
	assert.Equal(t, Time(0.5), ti.Utilization())
	assert.Equal(t, Time(0.5), ti.Density())
	assert.True(t, ti.ImplicitDeadline())
}

func TestNewTaskInfo_RejectsNonPositive(t *testing.T) {
	_, err := NewTaskInfo(0, 0, 10, 10, 1.0)
	assert.Error(t, err)

	_, err = NewTaskInfo(0, 5, 0, 10, 1.0)
	assert.Error(t, err)

	_, err = NewTaskInfo(0, 5, 10, 0, 1.0)
	assert.Error(t, err)
}

func TestNewTaskInfo_RejectsDeadlineExceedingPeriod(t *testing.T) {
	_, err := NewTaskInfo(0, 5, 11, 10, 1.0)
	assert.Error(t, err)
}

func TestNewTaskInfo_RejectsInfeasibleOnFastest(t *testing.T) {
	// wcet=10, deadline=5, fastest=1 -> 10 > 1*5
	_, err := NewTaskInfo(0, 10, 5, 10, 1.0)
	assert.Error(t, err)
}

func TestTaskInfo_Less(t *testing.T) {
	a, _ := NewTaskInfo(0, 1, 10, 10, 1.0)
	b, _ := NewTaskInfo(1, 1, 10, 10, 1.0)
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestTask_ReleaseJob(t *testing.T) {
	ti, _ := NewTaskInfo(3, 1, 10, 10, 1.0)
	task := NewTask(ti)

	j0 := task.releaseJob(0)
	j1 := task.releaseJob(10)

	require.Len(t, task.Jobs(), 2)
	assert.Equal(t, "3_0", j0.ID)
	assert.Equal(t, "3_1", j1.ID)
	assert.Same(t, task, j0.task)
}
