// Task factories (C10): materialize TaskInfo records from a target
// utilization, the way the teacher's workload package materializes a
// request from a sampled size. PeriodicTaskFactory is the only task class
// today, mirroring spec §3's TaskType being an open sum-type with a
// single member.

package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rtsim/gedfsim/sim"
)

// TaskIDAllocator hands out monotonically increasing task ids. The source
// uses a process-wide itertools.count(); per spec §9 ("Global id
// counters") this is instead owned per-factory so tests stay hermetic.
// Safe for concurrent use: the batch generator may build several catalogs
// from goroutines sharing one allocator.
type TaskIDAllocator struct {
	mu   sync.Mutex
	next int
}

// NewTaskIDAllocator returns an allocator starting at 0.
func NewTaskIDAllocator() *TaskIDAllocator {
	return &TaskIDAllocator{}
}

// Next returns the next id and advances the counter.
func (a *TaskIDAllocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// TaskInfoFactory builds one TaskInfo from a target utilization. It is the
// Go analogue of the source's AbstractTaskFactory.create_task.
type TaskInfoFactory interface {
	CreateTask(utilization sim.Time) (sim.TaskInfo, error)
}

// PeriodicTaskFactory builds Periodic TaskInfo records: period uniform in
// [lo,hi], wcet = period*utilization, and deadline either equal to period
// (implicit deadline) or uniform in [ceil(wcet/fastest), ceil(period)],
// which per spec §4.8 guarantees the task is feasible on the fastest core
// alone.
type PeriodicTaskFactory struct {
	periodBound      [2]int
	platform         sim.PlatformInfo
	implicitDeadline bool
	ids              *TaskIDAllocator
	rng              *rand.Rand
}

// NewPeriodicTaskFactory validates periodBound[0] <= periodBound[1] and
// returns a factory drawing periods/deadlines from rng.
func NewPeriodicTaskFactory(periodBound [2]int, platform sim.PlatformInfo, implicitDeadline bool, ids *TaskIDAllocator, rng *rand.Rand) (*PeriodicTaskFactory, error) {
	if periodBound[0] > periodBound[1] {
		return nil, &sim.ValidationError{Msg: fmt.Sprintf("invalid period bound range [%d,%d]", periodBound[0], periodBound[1])}
	}
	return &PeriodicTaskFactory{
		periodBound:      periodBound,
		platform:         platform,
		implicitDeadline: implicitDeadline,
		ids:              ids,
		rng:              rng,
	}, nil
}

// CreateTask draws a period uniformly in the configured bound and derives
// wcet from utilization; utilization must lie in (0, fastest].
func (f *PeriodicTaskFactory) CreateTask(utilization sim.Time) (sim.TaskInfo, error) {
	if utilization <= 0 || utilization > f.platform.Fastest() {
		return sim.TaskInfo{}, &sim.ValidationError{Msg: fmt.Sprintf("task utilization must be in (0, %v], got %v", f.platform.Fastest(), utilization)}
	}

	period := sim.Time(f.periodBound[0] + f.rng.Intn(f.periodBound[1]-f.periodBound[0]+1))
	wcet := period * utilization

	var deadline sim.Time
	if f.implicitDeadline {
		deadline = period
	} else {
		fastestExecTime := wcet / f.platform.Fastest()
		lo := int(math.Ceil(float64(fastestExecTime)))
		hi := int(math.Ceil(float64(period)))
		if hi < lo {
			hi = lo
		}
		deadline = sim.Time(lo + f.rng.Intn(hi-lo+1))
	}

	id := f.ids.Next()
	return sim.NewTaskInfo(id, wcet, deadline, period, f.platform.Fastest())
}
