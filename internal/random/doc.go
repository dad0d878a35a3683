// Package random provides the randomness capability consumed by the
// generation engine and every rule.
//
// The engine and rules depend on randomness exclusively through Source,
// which exposes exactly two operations:
//   - Intn(min, max): uniform integer in [min, max] (inclusive)
//   - Bool(): uniform boolean
//
// Sources are passed explicitly (dependency injection) instead of living in
// a process-wide singleton. Tests use NewFixed for fully scripted sequences
// and NewSeeded for reproducible pseudo-random runs.
package random
