package generator

import (
	"math/rand"
	"testing"

	"github.com/rtsim/gedfsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksetGenerator_RandomFactoryHappyPath(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{2, 1})
	g := NewTasksetGenerator(rand.New(rand.NewSource(9)))
	g, err := g.SetPlatformInfo(platform).
		SetPeriodBound(10, 50).
		SetTasksetFactoryType(RandomFactory).
		Setup()
	require.NoError(t, err)

	tasks, err := g.GenerateTaskset(4, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
	assert.Nil(t, g.Catalog())
}

func TestTasksetGenerator_SubsetFactoryHappyPath(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{1})
	g := NewTasksetGenerator(rand.New(rand.NewSource(9)))
	g, err := g.SetPlatformInfo(platform).
		SetPeriodBound(10, 50).
		SetTasksetFactoryType(SubsetFactory).
		SetNumTask(40).
		Setup()
	require.NoError(t, err)

	assert.Len(t, g.Catalog(), 40)
	tasks, err := g.GenerateTaskset(5, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 5)
}

func TestTasksetGenerator_MissingRequiredAttributes(t *testing.T) {
	g := NewTasksetGenerator(rand.New(rand.NewSource(1)))
	_, err := g.Setup()
	require.Error(t, err)
	var cfgErr *sim.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTasksetGenerator_SubsetFactoryMissingNumTask(t *testing.T) {
	platform := sim.MustNewPlatformInfo([]sim.Time{1})
	g := NewTasksetGenerator(rand.New(rand.NewSource(1)))
	_, err := g.SetPlatformInfo(platform).
		SetPeriodBound(10, 20).
		SetTasksetFactoryType(SubsetFactory).
		Setup()
	assert.Error(t, err)
}

func TestTasksetGenerator_GenerateBeforeSetupFails(t *testing.T) {
	g := NewTasksetGenerator(rand.New(rand.NewSource(1)))
	_, err := g.GenerateTaskset(3, nil)
	assert.Error(t, err)
}
