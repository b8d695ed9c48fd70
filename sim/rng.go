package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible generation/simulation run.
// Two runs with the same SimulationKey and identical configuration MUST
// produce bit-for-bit identical results (spec §9, "Determinism across runs").
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemUtilization is the RNG subsystem for utilization-vector generation
// (UUniFast/UScaling/UFitting). Uses the master seed directly so that a bare
// --seed flag reproduces pre-partitioning output.
const SubsystemUtilization = "utilization"

// SubsystemFactory is the RNG subsystem for task-factory sampling (period,
// deadline draws).
const SubsystemFactory = "factory"

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem so that, e.g., drawing extra utilization samples never
// perturbs the period/deadline draws of a factory sharing the same seed.
//
// Derivation formula:
//   - SubsystemUtilization: uses masterSeed directly (backward compatibility)
//   - all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. A PartitionedRNG must not be shared across
// goroutines; the parallel executor (analyzer.ParallelStrategy) gives each
// worker its own generator input, never a shared RNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same subsystem name always returns the same *rand.Rand
// instance (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemUtilization {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// SubsystemName formats a namespaced subsystem name, e.g. for per-factory
// isolation when multiple TaskFactory instances share one PartitionedRNG.
func SubsystemName(prefix string, id int) string {
	return fmt.Sprintf("%s_%d", prefix, id)
}
