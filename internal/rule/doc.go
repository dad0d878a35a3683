// Package rule defines the constraint contract honored by every rule the
// generation engine evaluates, the per-round CurrentData view, and the rule
// catalog.
//
// CONTRACT:
//
// Every Rule exposes four round operations plus one static check:
//   - ShareData: publish facts other rules may read this round
//   - Numbers: propose values to append (ErrSkip when nothing to add)
//   - WithinRange: must hold for any valid prefix of a solution
//   - Match: must hold once the sequence reaches the target length
//   - CheckCount: static satisfiability for a given length, evaluated once
//     when Settings is constructed
//
// ROUND ORDERING:
//
// All ShareData calls happen before any Numbers/WithinRange/Match call of
// the same round. Facts are read-only after collection.
//
// SEVERITY:
//
// WithinRange failures carry a Severity. Regular is an ordinary violation.
// MakePriority means the rule is running out of slots to satisfy its own
// need; the engine evaluates that rule first on the next attempt.
//
// EXCLUSION:
//
// An ExcludeRule requires the negation of a Rule on the finished sequence.
// Exclude adapts any Rule; rules that can invert their partial check
// element by element implement InvertedRanger.
package rule
