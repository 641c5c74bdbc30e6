// Package sim provides the generation-stepping engine of a two-allele
// polymorphism simulation.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - genetics.go: sexes, genotypes, alleles and Mendelian transmission
//   - generation.go: the phases of one generation (survival, maturation, mating, egg cap)
//   - simulator.go: the generation loop, reporting order and termination reasons
//
// # Life Cycle
//
// Each generation runs four phases over an egg pool and an adult pool:
//   - Phase A: eggs survive to adulthood with a per-(sex, genotype) probability
//     scaled by the global survival rate. Generation 1 starts from founders instead.
//   - Phase B: adults mature only if their realized maturation time fits within
//     a randomly drawn environment duration.
//   - Phase C: each mature female picks one mate genotype with frequency-dependent
//     male success, lays her clutch, and the egg pool is cut to the carrying capacity.
//   - Phase D: with stop_when_fixated set, the run ends once one allele is gone
//     from the egg pool.
//
// # Architecture
//
// Randomness flows from a single PartitionedRNG; each phase draws from its own
// subsystem stream so that changing one phase does not shift another's draws.
// Observation is decoupled through the Reporter interface; implementations
// live in sub-packages:
//   - sim/output/: CSV rows, console progress and the SQLite run history
//   - sim/trace/: in-memory run traces and their summaries
package sim
