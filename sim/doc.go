// Package sim provides the core discrete-event simulation engine for exact
// G-EDF schedulability analysis of periodic task sets on heterogeneous
// multi-core platforms.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel, in the order
// data flows through it:
//   - platform.go: the immutable processor-speed model (PlatformInfo)
//   - task.go: TaskInfo (immutable descriptor) and Task (runtime entity)
//   - engine.go: the virtual-time event queue and process interruption model
//   - resource.go: the preemptive, speed-ranked processor resource
//   - job.go: the per-job request/execute/preempt/complete state machine
//   - simulator.go: wires the above, computes the hyper-period, runs the engine
//   - schedulability.go: the DBF-based sufficient G-EDF test
//
// # Architecture
//
// Everything inside one Simulator runs single-threaded and cooperatively:
// the Engine is the only scheduler, Jobs request slots on the Resource,
// and virtual time advances only between queued events. Across
// simulations, nothing is shared — see package analyzer for how many
// independent Simulator runs are fanned out in parallel.
package sim
