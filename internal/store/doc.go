// Package store provides the SQLite-backed exclusion registry.
//
// The registry records sequences that were already issued (assigned
// licence numbers, vouchers, codes) so later generations can exclude
// them through an ExcludeNumberSets rule.
//
// # Identity
//
// Each entry is keyed by a content hash of its code points:
//
//	SHA256("randseq/exclusion/v1" + 0x00 + canonical JSON of the sequence)
//
// A string and the number sequence made of its code points share one id,
// so adding either twice is a no-op. Strings are NFC normalized first.
//
// # Ordering
//
// Entries carry a logical seq assigned at insertion. Every query orders by
// seq ASC, id ASC COLLATE BINARY so listings are stable.
//
// # Database Configuration
//
//   - WAL mode with synchronous=NORMAL
//   - busy_timeout=5000 so concurrent recorders wait instead of failing
//   - PRAGMA user_version holds the schema version; newer registries are refused
package store
