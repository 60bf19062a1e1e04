package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation batch.
// Two batches with the same SimulationKey, model, policy and configuration
// MUST produce bit-for-bit identical run records.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Run streams ===

// StreamPolicy returns the stream name for the batch of one policy.
func StreamPolicy(policyKey string) string {
	return "policy/" + policyKey
}

// ForRun returns the random source for run index run of the named stream.
//
// Derivation: PCG seeded with (key XOR fnv1a64(stream), mix64(run)).
// Every run owns its generator, so runs never contend for shared state and
// a run's draws do not depend on which other runs executed before it.
func (k SimulationKey) ForRun(stream string, run int) *rand.Rand {
	hi := uint64(k) ^ fnv1a64(stream)
	lo := mix64(uint64(run) ^ hi)
	return rand.New(rand.NewPCG(hi, lo))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// mix64 is the splitmix64 finalizer; it spreads consecutive run indices
// across the PCG state space.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
