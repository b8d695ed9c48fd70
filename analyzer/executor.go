// The batch executor (C11): a strategy pattern fanning a batch of task-set
// evaluations out serially or across a bounded worker pool, handing each
// (taskset, result, platform) tuple to a persistence collaborator. The
// work item shipped to a worker is a pure value — a task-info slice plus
// a platform; the analyzer holding the test configuration is passed to
// Execute alongside the items and is shared by all workers.
//
// Grounded on simRT/utils/schedulability_test_executor.py: SerialStrategy
// mirrors SerialStrategy.execute's plain loop; ParallelStrategy replaces
// the source's multiprocessing.Pool(processes=...).imap_unordered with
// golang.org/x/sync/errgroup's bounded goroutine fan-out, the idiomatic
// Go analogue of a process pool for this single-process-per-run workload.

package analyzer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rtsim/gedfsim/sim"
)

// Persistence is the external collaborator contract from spec §6: the
// core defines this interface but never implements it. Save operations
// must be idempotent on TaskInfo.Id. A Persistence implementation must
// serialize its own writes; the executor calls it from multiple
// goroutines under ParallelStrategy without additional locking.
type Persistence interface {
	Connect() error
	SaveTask(task sim.TaskInfo) error
	SaveTaskset(platform sim.PlatformInfo, taskset []sim.TaskInfo, exactResult, suffResult *bool) error
	Close() error
}

// WorkItem is the pure value shipped to a worker: a task set plus the
// platform it is evaluated against. It carries no reference to shared
// mutable state, so it is safe to hand to any worker.
type WorkItem struct {
	Taskset  []sim.TaskInfo
	Platform sim.PlatformInfo
}

// ExecutionStrategy applies an analyzer to a batch of task sets and
// persists each result.
type ExecutionStrategy interface {
	Execute(ctx context.Context, a *SchedulabilityAnalyzer, persistence Persistence, items []WorkItem) error
}

func analyzeAndSave(a *SchedulabilityAnalyzer, persistence Persistence, item WorkItem) error {
	if err := persistence.Connect(); err != nil {
		return fmt.Errorf("executor: connect: %w", err)
	}
	defer persistence.Close()

	result, err := a.Analyze(item.Taskset, item.Platform)
	if err != nil {
		return fmt.Errorf("executor: analyze: %w", err)
	}

	for _, task := range item.Taskset {
		if err := persistence.SaveTask(task); err != nil {
			return fmt.Errorf("executor: save task %d: %w", task.Id, err)
		}
	}

	if err := persistence.SaveTaskset(item.Platform, item.Taskset, result.ExactTestResult, result.SuffTestResult); err != nil {
		return fmt.Errorf("executor: save taskset: %w", err)
	}
	return nil
}

// SerialStrategy evaluates task sets one at a time, in submission order.
type SerialStrategy struct{}

// Execute runs every item sequentially, stopping at the first error.
func (SerialStrategy) Execute(ctx context.Context, a *SchedulabilityAnalyzer, persistence Persistence, items []WorkItem) error {
	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := analyzeAndSave(a, persistence, item); err != nil {
			return err
		}
	}
	return nil
}

// ParallelStrategy evaluates task sets across a bounded pool of
// goroutines. Results need not arrive or persist in submission order
// (spec §4.9). Execute requests a higher OS scheduling priority once,
// before fanning out, where the platform permits it (best-effort; see
// priority_unix.go).
type ParallelStrategy struct {
	Workers int
}

// Execute starts one goroutine per item, at most Workers of them running
// at once, and aggregates the first error via errgroup. The scheduling
// priority is raised once by the calling goroutine, not once per worker.
func (p ParallelStrategy) Execute(ctx context.Context, a *SchedulabilityAnalyzer, persistence Persistence, items []WorkItem) error {
	if p.Workers <= 0 {
		return &sim.ConfigurationError{Msg: "ParallelStrategy.Workers must be > 0"}
	}

	setHighPriority()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return analyzeAndSave(a, persistence, item)
		})
	}

	if err := g.Wait(); err != nil {
		logrus.Errorf("parallel executor: batch failed: %v", err)
		return err
	}
	return nil
}
