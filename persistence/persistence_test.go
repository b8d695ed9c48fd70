package persistence

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtsim/gedfsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, id int, wcet, deadline, period, fastest sim.Time) sim.TaskInfo {
	t.Helper()
	ti, err := sim.NewTaskInfo(id, wcet, deadline, period, fastest)
	require.NoError(t, err)
	return ti
}

func TestJSONPersistence_SaveTaskIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	p := NewJSONPersistence(dir)
	require.NoError(t, p.Connect())

	task := mustTask(t, 3, 2, 10, 10, 1.0)
	require.NoError(t, p.SaveTask(task))
	require.NoError(t, p.SaveTask(task))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	count := 0
	for _, e := range entries {
		if e.Name() == "task_3.json" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestJSONPersistence_SaveTasksetAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	p := NewJSONPersistence(dir)
	require.NoError(t, p.Connect())

	platform := sim.MustNewPlatformInfo([]sim.Time{2, 1})
	taskset := []sim.TaskInfo{mustTask(t, 0, 1, 10, 10, 2.0), mustTask(t, 1, 2, 10, 10, 2.0)}
	exact := true
	require.NoError(t, p.SaveTaskset(platform, taskset, &exact, nil))
	require.NoError(t, p.SaveTaskset(platform, taskset, nil, &exact))
	require.NoError(t, p.Close())

	f, err := os.Open(filepath.Join(dir, "tasksets.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestJSONPersistence_RequiresConnectBeforeSave(t *testing.T) {
	p := NewJSONPersistence(t.TempDir())
	err := p.SaveTask(mustTask(t, 0, 1, 10, 10, 1.0))
	assert.Error(t, err)
}
