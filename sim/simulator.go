// Wires the platform, task set, event engine and resource into one
// run: computes the hyper-period, schedules periodic releases, and
// reports exact G-EDF feasibility as a boolean verdict.

package sim

// Simulator is the façade over one exact feasibility run. Each Simulator
// owns its own Engine and Resource; nothing is shared across instances,
// so many simulations run safely in parallel (see package analyzer).
type Simulator struct {
	platform PlatformInfo
	tasks    []*Task
	engine   *Engine
	resource *Resource
}

// NewSimulator builds a Simulator over the given task descriptors and
// platform. Task order is preserved in Tasks().
func NewSimulator(taskInfos []TaskInfo, platform PlatformInfo) *Simulator {
	tasks := make([]*Task, len(taskInfos))
	for i, ti := range taskInfos {
		tasks[i] = NewTask(ti)
	}
	return &Simulator{
		platform: platform,
		tasks:    tasks,
		engine:   NewEngine(),
		resource: NewResource(platform),
	}
}

// Tasks returns the runtime Task entities, populated with released jobs
// once Run has executed.
func (s *Simulator) Tasks() []*Task {
	return s.tasks
}

// Now returns the simulator's current virtual time.
func (s *Simulator) Now() Time {
	return s.engine.Now()
}

// HyperPeriod is lcm(ceil(period_i)) across every task in the set. It is
// an exact upper bound for deciding G-EDF feasibility of a periodic task
// set with rational periods: the schedule repeats with this period, so no
// deadline miss can first occur beyond it.
func (s *Simulator) HyperPeriod() Time {
	infos := make([]TaskInfo, len(s.tasks))
	for i, task := range s.tasks {
		infos[i] = task.Info
	}
	return hyperPeriod(infos)
}

// Run executes the event engine up to min(until, hyper-period) — until=0
// means "use the hyper-period as-is" — and reports true iff no job ever
// missed its deadline in that span.
func (s *Simulator) Run(until Time) bool {
	horizon := s.HyperPeriod()
	if until > 0 && until < horizon {
		horizon = until
	}

	for _, task := range s.tasks {
		s.scheduleReleases(task, horizon)
	}

	err := s.engine.Run(horizon)
	return err == nil
}

// scheduleReleases arms task's recurring period timer starting at t=0: on
// each firing it releases one job and, unless the next tick would land
// past horizon, reschedules itself.
func (s *Simulator) scheduleReleases(task *Task, horizon Time) {
	var fire func(engine *Engine) error
	fire = func(engine *Engine) error {
		job := task.releaseJob(engine.Now())
		job.release(engine, s.resource)
		if engine.Now()+task.Info.Period <= horizon {
			engine.Timeout(task.Info.Period, fire)
		}
		return nil
	}
	s.engine.Timeout(0, fire)
}
