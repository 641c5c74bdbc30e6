package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical parameters
// MUST produce bit-for-bit identical generation sequences.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// ForReplicate derives the key of replicate i. Replicate 0 is the key itself,
// so a single run and the first replicate of a batch are identical.
func (k SimulationKey) ForReplicate(i int) SimulationKey {
	if i == 0 {
		return k
	}
	return SimulationKey(int64(k) ^ fnv1a64(fmt.Sprintf("replicate_%d", i)))
}

// === Subsystem Constants ===

const (
	// SubsystemFounders seeds generation 0. Uses the master seed directly.
	SubsystemFounders = "founders"

	// SubsystemSurvival drives the per-egg survival trials of Phase A.
	SubsystemSurvival = "survival"

	// SubsystemMaturation drives environment and maturation-time draws of Phase B.
	SubsystemMaturation = "maturation"

	// SubsystemMating drives mate choice, gametes and egg sex in Phase C.
	SubsystemMating = "mating"

	// SubsystemShuffle drives the egg pool permutation before truncation.
	SubsystemShuffle = "shuffle"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemFounders: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
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

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemFounders {
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
