// Package engine implements the randomized generation loop.
//
// The engine builds a sequence of integers that satisfies every configured
// rule without enumerating the solution space. It proposes values, checks
// them against all rules, and backtracks by resetting when the search gets
// stuck.
//
// ATTEMPT LOOP:
//
// Each attempt is one round:
//  1. Shuffle the rules; a pending priority rule is moved to the front
//  2. Collect ShareData facts from every rule
//  3. Ask rules in order for Numbers; the first non-skip proposal wins
//  4. Check the combined sequence: Match and Excluded at full length,
//     WithinRange and WithinExcludedRange below it
//  5. Commit on success
//
// RESETS:
//
// Failures are counted per discriminator ("<rule>/<phase>"). When any count
// exceeds the error threshold, or too many full-length checks fail, the
// sequence and the tracker are cleared and the search starts over. The
// attempt index of every reset is recorded on the Result.
//
// A generation is a synchronous, single-goroutine loop. GenerateBatch runs
// independent generations concurrently.
package engine
