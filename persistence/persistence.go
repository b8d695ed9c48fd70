// Package persistence provides a reference implementation of the
// analyzer.Persistence external-collaborator contract (spec §6): a
// directory of JSON files, one per task plus a JSON-lines taskset log.
// Grounded on the shape of simRT/utils/task_storage.py (TaskStorage) and
// SqlitePersistence in schedulability_test_executor.py, re-expressed with
// encoding/json instead of sqlite3 since the core itself never depends on
// a database driver — persistence is explicitly an external collaborator
// the core only calls through an interface (analyzer.Persistence).
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rtsim/gedfsim/sim"
)

// JSONPersistence satisfies analyzer.Persistence by writing one
// indented JSON file per task (named by id, so SaveTask is naturally
// idempotent on TaskInfo.Id — a repeat save with the same id overwrites
// the same file) and appending one line per evaluated task set to
// tasksets.jsonl. All writes are serialized by an internal mutex, as
// required of any Persistence implementation by spec §6.
type JSONPersistence struct {
	mu        sync.Mutex
	dir       string
	connected bool
}

// NewJSONPersistence returns a JSONPersistence rooted at dir. Connect
// creates the directory; it is not created by this constructor.
func NewJSONPersistence(dir string) *JSONPersistence {
	return &JSONPersistence{dir: dir}
}

// Connect creates the backing directory if needed.
func (p *JSONPersistence) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("persistence: connect: %w", err)
	}
	p.connected = true
	return nil
}

// SaveTask writes task to "<dir>/task_<id>.json", overwriting any
// previous save for the same id.
func (p *JSONPersistence) SaveTask(task sim.TaskInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return &sim.ConfigurationError{Msg: "persistence: SaveTask called before Connect"}
	}

	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: marshal task %d: %w", task.Id, err)
	}
	path := filepath.Join(p.dir, fmt.Sprintf("task_%d.json", task.Id))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write task %d: %w", task.Id, err)
	}
	return nil
}

// tasksetRecord is the JSON-lines shape appended by SaveTaskset: just
// enough to reconstruct which tasks were tested, at what system
// utilization, and with what verdicts — the same fields
// SqlitePersistence.save_taskset derives before its TaskStorage.insert.
type tasksetRecord struct {
	PlatformSpeeds    []sim.Time `json:"platform_speeds"`
	TaskIDs           []int      `json:"task_ids"`
	SystemUtilization sim.Time   `json:"system_utilization"`
	ExactTestResult   *bool      `json:"exact_test_result,omitempty"`
	SuffTestResult    *bool      `json:"suff_test_result,omitempty"`
}

// SaveTaskset appends one record describing taskset's evaluation to
// "<dir>/tasksets.jsonl". System utilization is computed the same way as
// the source: Σ task utilization / platform.SM().
func (p *JSONPersistence) SaveTaskset(platform sim.PlatformInfo, taskset []sim.TaskInfo, exactResult, suffResult *bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return &sim.ConfigurationError{Msg: "persistence: SaveTaskset called before Connect"}
	}

	var tasksetUtilization sim.Time
	ids := make([]int, len(taskset))
	for i, task := range taskset {
		tasksetUtilization += task.Utilization()
		ids[i] = task.Id
	}

	rec := tasksetRecord{
		PlatformSpeeds:    platform.Speeds(),
		TaskIDs:           ids,
		SystemUtilization: tasksetUtilization / platform.SM(),
		ExactTestResult:   exactResult,
		SuffTestResult:    suffResult,
	}

	f, err := os.OpenFile(filepath.Join(p.dir, "tasksets.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("persistence: open tasksets log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("persistence: encode taskset record: %w", err)
	}
	return nil
}

// Close marks the connection closed. The underlying files need no
// explicit flush: every write above is already synchronous.
func (p *JSONPersistence) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	return nil
}
