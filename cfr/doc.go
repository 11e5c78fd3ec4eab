// Package cfr implements the tabular Counterfactual Regret Minimization
// family: vanilla CFR with uniform, linear, discounted, and exponential
// weighting, the Monte-Carlo CFR variants (outcome sampling, external
// sampling, chance sampling, pure CFR), regret matching and regret
// matching plus, and best-response / exploitability computation.
//
// The package never constructs or inspects a concrete game. Callers
// supply an Environment (see env.go) describing an extensive-form game
// of imperfect information; the package drives it to an approximate
// Nash equilibrium (exactly a Nash equilibrium for two-player
// zero-sum games) via repeated tree traversal.
package cfr
