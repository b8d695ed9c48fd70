// The per-job state machine: Requesting -> Executing -> Completed, with
// preemption looping back to Requesting and a rank change while still
// holding recomputing the pending completion timeout in place.

package sim

// ExecutionInterval records one contiguous on-platform span, used both to
// reconstruct accumulated_execution and as the literal execution log
// external tooling (and tests) can inspect.
type ExecutionInterval struct {
	Start Time
	End   Time
	Speed Time
}

// executionEpsilon is the relative tolerance for accumulated_execution ==
// wcet at completion. The timeout duration is computed from a speed that
// may itself carry floating-point error accumulated across several
// preemptions, so accumulated execution is snapped to exactly wcet once
// within this tolerance rather than compared for exact equality.
const executionEpsilon = 1e-6

// Job is one released instance of a periodic task.
type Job struct {
	ID               string
	AbsoluteDeadline Time

	task    *Task
	arrival Time

	accumulated Time
	startTime   Time
	haveStart   bool
	endTime     Time
	haveEnd     bool

	lastStart Time
	lastSpeed Time
	log       []ExecutionInterval

	req      *ResourceRequest
	engine   *Engine
	resource *Resource
	timeout  *EventHandle
}

func newJob(id string, task *Task, arrival Time) *Job {
	return &Job{
		ID:               id,
		task:             task,
		arrival:          arrival,
		AbsoluteDeadline: arrival + task.Info.Deadline,
	}
}

// Remaining is max(wcet - accumulated, 0).
func (j *Job) Remaining() Time {
	r := j.task.Info.Wcet - j.accumulated
	if r < 0 {
		return 0
	}
	return r
}

// AccumulatedExecution returns the execution accounted for so far. It is
// updated on a rank change, a preemption and completion; time spent on the
// core since the latest of those events is not yet included.
func (j *Job) AccumulatedExecution() Time {
	return j.accumulated
}

// StartTime returns the first on-CPU instant and whether the job has run.
func (j *Job) StartTime() (Time, bool) {
	return j.startTime, j.haveStart
}

// EndTime returns the completion instant and whether the job has finished.
func (j *Job) EndTime() (Time, bool) {
	return j.endTime, j.haveEnd
}

// ExecutionLog returns a copy of the recorded on-platform intervals, in
// chronological order.
func (j *Job) ExecutionLog() []ExecutionInterval {
	cp := make([]ExecutionInterval, len(j.log))
	copy(cp, j.log)
	return cp
}

// release requests the job's slot at EDF priority (lower absolute
// deadline is stronger) at the current engine instant. Called exactly
// once, by the task driver, at the job's arrival.
func (j *Job) release(engine *Engine, resource *Resource) {
	j.engine = engine
	j.resource = resource
	j.req = resource.Request(j.AbsoluteDeadline, true, j, engine.Now())
}

// OnResourceEvent is the resource's synchronous rank-change notification.
// It never blocks and never yields virtual time: the resource is still
// mid-mutation when this fires.
func (j *Job) OnResourceEvent(req *ResourceRequest, now Time) {
	switch req.State() {
	case OnPlatform:
		j.onGranted(req, now)
	case Preempted:
		j.onPreempted(now)
	}
}

// onGranted fires both for a brand new admission and for a rank change
// that leaves the job still holding a slot. It first accounts for
// execution done at the previous speed (a no-op on brand new admission,
// since lastSpeed is still zero), then the pending completion timeout is
// cancelled and rescheduled against the remaining work at the new speed.
func (j *Job) onGranted(req *ResourceRequest, now Time) {
	j.accumulate(now)

	if !j.haveStart {
		j.startTime = now
		j.haveStart = true
	}
	j.lastStart = now
	j.lastSpeed = req.Speed()

	if j.timeout != nil {
		j.engine.Cancel(j.timeout)
	}
	delta := j.Remaining() / j.lastSpeed
	j.timeout = j.engine.Timeout(delta, j.onTimeout)
}

// onPreempted accounts for the execution done since the last grant, drops
// the now-stale timeout, and re-enters the waiting queue at the same
// priority; the job has no special handling for its own displacement
// beyond this, matching Requesting being the only state reachable from
// Preempted.
func (j *Job) onPreempted(now Time) {
	j.accumulate(now)
	j.lastSpeed = 0
	if j.timeout != nil {
		j.engine.Cancel(j.timeout)
		j.timeout = nil
	}
	j.req = j.resource.Request(j.AbsoluteDeadline, true, j, now)
}

func (j *Job) accumulate(now Time) {
	if j.lastSpeed <= 0 {
		return
	}
	j.log = append(j.log, ExecutionInterval{Start: j.lastStart, End: now, Speed: j.lastSpeed})
	j.accumulated += (now - j.lastStart) * j.lastSpeed
}

// onTimeout fires when the job's remaining execution has elapsed at its
// current speed: the job is done. Accumulated execution is snapped to
// wcet within tolerance, the slot is released, and a deadline-miss
// interrupt is raised (and left to propagate through Engine.Run) if
// completion lands strictly past the absolute deadline.
func (j *Job) onTimeout(engine *Engine) error {
	now := engine.Now()
	j.accumulate(now)
	j.timeout = nil

	if j.task.Info.Wcet-j.accumulated <= executionEpsilon*j.task.Info.Wcet {
		j.accumulated = j.task.Info.Wcet
	}

	j.endTime = now
	j.haveEnd = true

	if err := j.resource.Release(j.req, now); err != nil {
		return err
	}

	if j.endTime > j.AbsoluteDeadline {
		return &deadlineMissInterrupt{JobID: j.ID, Deadline: j.AbsoluteDeadline}
	}
	return nil
}
