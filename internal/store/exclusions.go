package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// DomainExclusion is the hash domain for exclusion ids.
// The version suffix leaves room for a future algorithm change.
const DomainExclusion = "randseq/exclusion/v1"

// Kind records how an exclusion was entered.
type Kind string

const (
	KindNumbers Kind = "numbers"
	KindString  Kind = "string"
)

// Exclusion is one registry entry.
type Exclusion struct {
	ID      string
	Seq     int64
	Kind    Kind
	Value   string // display form: the string, or the numbers as JSON
	Numbers []int
	Note    string
}

// ExclusionID computes the content-addressed id of a sequence.
// Format: SHA256(domain + 0x00 + json(numbers))
func ExclusionID(numbers []int) (string, error) {
	data, err := json.Marshal(normalizeNil(numbers))
	if err != nil {
		return "", fmt.Errorf("exclusion id: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainExclusion))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// AddNumbers registers a number sequence.
// Returns false when the sequence was already present.
func (s *Store) AddNumbers(ctx context.Context, numbers []int, note string) (bool, error) {
	if len(numbers) == 0 {
		return false, fmt.Errorf("add numbers: empty sequence")
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return false, fmt.Errorf("add numbers: %w", err)
	}
	return s.add(ctx, KindNumbers, string(data), numbers, note)
}

// AddString registers the code points of s after NFC normalization.
// Returns false when the sequence was already present.
func (s *Store) AddString(ctx context.Context, str, note string) (bool, error) {
	normalized := norm.NFC.String(str)
	if normalized == "" {
		return false, fmt.Errorf("add string: empty value")
	}
	numbers := make([]int, 0, len(normalized))
	for _, r := range normalized {
		numbers = append(numbers, int(r))
	}
	return s.add(ctx, KindString, normalized, numbers, note)
}

// add assigns the next seq and inserts inside one transaction.
// Uses ON CONFLICT(id) DO NOTHING so duplicates are silently ignored.
func (s *Store) add(ctx context.Context, kind Kind, value string, numbers []int, note string) (bool, error) {
	id, err := ExclusionID(numbers)
	if err != nil {
		return false, err
	}
	numbersJSON, err := json.Marshal(numbers)
	if err != nil {
		return false, fmt.Errorf("add exclusion: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM exclusions`).Scan(&seq); err != nil {
		return false, fmt.Errorf("next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO exclusions (id, seq, kind, value, numbers, note)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, seq, string(kind), value, string(numbersJSON), note)
	if err != nil {
		return false, fmt.Errorf("add exclusion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add exclusion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return n == 1, nil
}

// List returns every entry ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) when the registry is empty.
func (s *Store) List(ctx context.Context) ([]Exclusion, error) {
	return s.query(ctx, `
		SELECT id, seq, kind, value, numbers, note
		FROM exclusions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ListKind returns the entries of one kind, in registry order.
func (s *Store) ListKind(ctx context.Context, kind Kind) ([]Exclusion, error) {
	return s.query(ctx, `
		SELECT id, seq, kind, value, numbers, note
		FROM exclusions
		WHERE kind = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, string(kind))
}

// Sequences returns the numbers of every entry, ready for an
// ExcludeNumberSets rule.
func (s *Store) Sequences(ctx context.Context) ([][]int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(entries))
	for i, e := range entries {
		out[i] = e.Numbers
	}
	return out, nil
}

// Count returns the number of registered entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exclusions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exclusions: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Exclusion, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query exclusions: %w", err)
	}
	defer rows.Close()

	entries := []Exclusion{}
	for rows.Next() {
		e, err := scanExclusion(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exclusions: %w", err)
	}
	return entries, nil
}

func scanExclusion(rows *sql.Rows) (Exclusion, error) {
	var (
		e           Exclusion
		kind        string
		numbersJSON string
	)
	if err := rows.Scan(&e.ID, &e.Seq, &kind, &e.Value, &numbersJSON, &e.Note); err != nil {
		return Exclusion{}, fmt.Errorf("scan exclusion: %w", err)
	}
	e.Kind = Kind(kind)
	if err := json.Unmarshal([]byte(numbersJSON), &e.Numbers); err != nil {
		return Exclusion{}, fmt.Errorf("unmarshal numbers for %s: %w", e.ID, err)
	}
	return e, nil
}

func normalizeNil(numbers []int) []int {
	if numbers == nil {
		return []int{}
	}
	return numbers
}
