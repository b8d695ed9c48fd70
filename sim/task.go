// Defines the TaskInfo value type and the Task runtime entity that tracks
// the jobs released by a periodic task over the course of a simulation.

package sim

import "fmt"

// TaskType tags the class of a task. Only Periodic exists today; the type
// is a sum-type seam for sporadic/aperiodic variants the core does not
// implement.
type TaskType int

const (
	// Periodic tasks release one job at every multiple of their period,
	// starting at t=0.
	Periodic TaskType = iota
)

func (t TaskType) String() string {
	switch t {
	case Periodic:
		return "Periodic"
	default:
		return "Unknown"
	}
}

// TaskInfo is the immutable, hashable descriptor of a periodic task. Two
// TaskInfo values with the same fields compare equal; ordering is by Id.
type TaskInfo struct {
	Id       int
	Type     TaskType
	Wcet     Time
	Deadline Time
	Period   Time
}

// NewTaskInfo validates and constructs a TaskInfo. Wcet, Deadline and
// Period must be strictly positive, Deadline must not exceed Period, and
// on the given platform wcet must be schedulable on the fastest core alone
// (wcet <= fastest*deadline) or the task is trivially infeasible.
func NewTaskInfo(id int, wcet, deadline, period Time, fastest Time) (TaskInfo, error) {
	if wcet <= 0 {
		return TaskInfo{}, &ValidationError{Msg: fmt.Sprintf("task %d: wcet must be > 0, got %v", id, wcet)}
	}
	if deadline <= 0 {
		return TaskInfo{}, &ValidationError{Msg: fmt.Sprintf("task %d: deadline must be > 0, got %v", id, deadline)}
	}
	if period <= 0 {
		return TaskInfo{}, &ValidationError{Msg: fmt.Sprintf("task %d: period must be > 0, got %v", id, period)}
	}
	if deadline > period {
		return TaskInfo{}, &ValidationError{Msg: fmt.Sprintf("task %d: deadline %v exceeds period %v", id, deadline, period)}
	}
	if wcet > fastest*deadline {
		return TaskInfo{}, &ValidationError{Msg: fmt.Sprintf("task %d: wcet %v exceeds fastest*deadline = %v", id, wcet, fastest*deadline)}
	}
	return TaskInfo{Id: id, Type: Periodic, Wcet: wcet, Deadline: deadline, Period: period}, nil
}

// Utilization is wcet/period.
func (t TaskInfo) Utilization() Time {
	return t.Wcet / t.Period
}

// Density is wcet/deadline.
func (t TaskInfo) Density() Time {
	return t.Wcet / t.Deadline
}

// ImplicitDeadline reports whether deadline == period.
func (t TaskInfo) ImplicitDeadline() bool {
	return t.Deadline == t.Period
}

// Less orders TaskInfo values by Id, giving the total order §3 requires.
func (t TaskInfo) Less(other TaskInfo) bool {
	return t.Id < other.Id
}

// Task is the runtime entity tracking jobs released for a TaskInfo over
// one simulation. It owns a monotonic per-task job counter and the
// ordered list of jobs it has released; both are mutated only by
// releaseJob, called by the task driver on a period tick. A job's
// deadline-miss interrupt is returned straight to the engine and does not
// pass through the task.
type Task struct {
	Info      TaskInfo
	jobs      []*Job
	nextJobID int
}

// NewTask wraps a TaskInfo in a fresh runtime Task with no released jobs.
func NewTask(info TaskInfo) *Task {
	return &Task{Info: info}
}

// Jobs returns the ordered slice of jobs released so far. The slice is
// owned by Task; callers must not mutate it.
func (t *Task) Jobs() []*Job {
	return t.jobs
}

// releaseJob constructs and appends a new Job for this task arriving at
// the given virtual time, and returns it. Only the task driver (engine.go
// companion in simulator.go) calls this, once per period tick.
func (t *Task) releaseJob(arrival Time) *Job {
	id := fmt.Sprintf("%d_%d", t.Info.Id, t.nextJobID)
	t.nextJobID++
	j := newJob(id, t, arrival)
	t.jobs = append(t.jobs, j)
	return j
}
