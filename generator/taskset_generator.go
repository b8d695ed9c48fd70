// TasksetGenerator is the fluent builder wrapping TaskInfoFactory/
// TasksetFactory selection, modeled directly on
// simrt/generator/taskset_generator.py's TasksetGenerator: a chain of
// Set* calls followed by Setup(), raising a ConfigurationError for any
// required attribute left unset (the Go expression of the source's
// AttributeError-raising _validate_required_attributes).

package generator

import (
	"math/rand"
	"strings"

	"github.com/rtsim/gedfsim/sim"
)

// TasksetFactoryKind selects which TasksetFactory Setup wires up.
type TasksetFactoryKind int

const (
	// RandomFactory mints fresh tasks per drawn utilization (TasksetFactory
	// in the source).
	RandomFactory TasksetFactoryKind = iota
	// SubsetFactory samples the closest task from a generated candidate
	// catalog (TaskSubsetFactory in the source).
	SubsetFactory
)

// TasksetGenerator is a builder: Set* methods return the receiver so calls
// chain, and Setup validates and wires the configured factories.
type TasksetGenerator struct {
	platform    *sim.PlatformInfo
	periodBound *[2]int
	factoryKind *TasksetFactoryKind
	numTask     *int

	algorithm        UtilizationAlgorithm
	implicitDeadline bool

	rng *rand.Rand
	ids *TaskIDAllocator

	taskFactory    TaskInfoFactory
	tasksetFactory TasksetFactory
	catalog        []sim.TaskInfo
}

// NewTasksetGenerator returns a builder defaulting to UUniFast and an
// implicit deadline, matching the source's __init__ defaults.
func NewTasksetGenerator(rng *rand.Rand) *TasksetGenerator {
	return &TasksetGenerator{
		algorithm:        UUniFast,
		implicitDeadline: true,
		rng:              rng,
		ids:              NewTaskIDAllocator(),
	}
}

// SetPlatformInfo configures the target platform. Required.
func (g *TasksetGenerator) SetPlatformInfo(p sim.PlatformInfo) *TasksetGenerator {
	g.platform = &p
	return g
}

// SetPeriodBound configures the [lo,hi] period sampling range. Required.
func (g *TasksetGenerator) SetPeriodBound(lo, hi int) *TasksetGenerator {
	pb := [2]int{lo, hi}
	g.periodBound = &pb
	return g
}

// SetTasksetFactoryType selects RandomFactory or SubsetFactory. Required.
func (g *TasksetGenerator) SetTasksetFactoryType(kind TasksetFactoryKind) *TasksetGenerator {
	g.factoryKind = &kind
	return g
}

// SetUtilizationAlgorithm overrides the default UUniFast algorithm.
func (g *TasksetGenerator) SetUtilizationAlgorithm(alg UtilizationAlgorithm) *TasksetGenerator {
	g.algorithm = alg
	return g
}

// SetImplicitDeadline overrides the default implicit-deadline=true.
func (g *TasksetGenerator) SetImplicitDeadline(implicit bool) *TasksetGenerator {
	g.implicitDeadline = implicit
	return g
}

// SetNumTask sets the candidate catalog size; required only when
// SetTasksetFactoryType(SubsetFactory) is used.
func (g *TasksetGenerator) SetNumTask(n int) *TasksetGenerator {
	g.numTask = &n
	return g
}

// Setup validates required attributes and builds the configured task and
// taskset factories. Must be called before GenerateTaskset.
func (g *TasksetGenerator) Setup() (*TasksetGenerator, error) {
	if err := g.validateRequiredAttributes(); err != nil {
		return nil, err
	}

	tf, err := NewPeriodicTaskFactory(*g.periodBound, *g.platform, g.implicitDeadline, g.ids, g.rng)
	if err != nil {
		return nil, err
	}
	g.taskFactory = tf

	switch *g.factoryKind {
	case RandomFactory:
		g.tasksetFactory = &RandomTasksetFactory{TaskFactory: tf, Algorithm: g.algorithm, Platform: *g.platform, RNG: g.rng}
	case SubsetFactory:
		utils, err := UniformUtilizations(*g.numTask, g.platform.Fastest(), g.rng)
		if err != nil {
			return nil, err
		}
		catalog := make([]sim.TaskInfo, len(utils))
		for i, u := range utils {
			catalog[i], err = tf.CreateTask(u)
			if err != nil {
				return nil, err
			}
		}
		g.catalog = catalog
		g.tasksetFactory = NewTaskSubsetFactory(catalog, g.algorithm, *g.platform, g.rng)
	default:
		return nil, &sim.ConfigurationError{Msg: "taskset_factory_type setting error"}
	}
	return g, nil
}

func (g *TasksetGenerator) validateRequiredAttributes() error {
	var missing []string
	if g.factoryKind == nil {
		missing = append(missing, "taskset_factory_type")
	}
	if g.platform == nil {
		missing = append(missing, "platform_info")
	}
	if g.periodBound == nil {
		missing = append(missing, "period_bound")
	}
	if len(missing) > 0 {
		return &sim.ConfigurationError{Msg: strings.Join(missing, ", ") + " must be set"}
	}
	if *g.factoryKind == SubsetFactory && g.numTask == nil {
		return &sim.ConfigurationError{Msg: "num_task must be set"}
	}
	return nil
}

// GenerateTaskset samples a task set of size numTask, optionally at a
// prescribed system utilization. Setup must have run first.
func (g *TasksetGenerator) GenerateTaskset(numTask int, systemUtilization *sim.Time) ([]sim.TaskInfo, error) {
	if g.tasksetFactory == nil {
		return nil, &sim.ConfigurationError{Msg: "Setup must be called before GenerateTaskset"}
	}
	return g.tasksetFactory.CreateTaskset(numTask, systemUtilization)
}

// Catalog returns the candidate tasks generated for a SubsetFactory setup,
// or nil for a RandomFactory setup.
func (g *TasksetGenerator) Catalog() []sim.TaskInfo {
	return g.catalog
}
