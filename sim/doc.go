// Package sim provides the policy search and Monte Carlo simulation engine.
//
// # Reading Guide
//
// Start with these files:
//   - model.go: the validated Markov process (states, costed actions, transitions)
//   - policy.go: the immutable Policy value object and its builder
//   - enumerate.go: budget-constrained policy enumeration
//   - trajectory.go: one stochastic rollout under a policy
//   - engine.go: batches of independent rollouts per policy
//
// # Architecture
//
// Data flows Model → EnumeratePolicies → Engine.Run (per policy) → Batch.
// Statistics and value-of-information live in sim/voi; optional step-level
// traces live in sim/trace. The model is read-only once built, and every run
// draws from its own seeded stream (rng.go), so batches are reproducible and
// free of shared mutable state.
//
// # Errors
//
// Model integrity problems are *ConfigurationError, illegal assignments are
// *InvalidPolicyError, and baseline problems are *MissingBaselineError or
// *AmbiguousBaselineError. An enumeration with no feasible policy carries a
// *BudgetOverflowWarning instead of failing.
package sim
