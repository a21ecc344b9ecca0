// Package ledger provides value-transfer primitives for the registry. The
// in-memory implementation backs tests and single-process deployments; real
// deployments sit behind whatever settlement layer the environment provides.
package ledger
