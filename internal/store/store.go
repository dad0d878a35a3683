package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version of every registry this
// build creates. A registry stamped with a higher version was written by a
// newer randseq and is refused rather than silently misread.
const schemaVersion = 1

// registryPragmas let several generate --record processes share one file:
// readers never block the writer and a busy writer is waited on.
var registryPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// Store is the exclusion registry.
type Store struct {
	db *sql.DB
}

// Open opens the registry at path, creating it when missing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open registry %s: %w", path, err)
	}

	// add reads MAX(seq) and inserts in one transaction; a single
	// connection keeps those transactions serial within the process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the registry. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// prepare applies the pragmas, checks the stamped version and creates the
// table and indexes.
func prepare(db *sql.DB) error {
	for _, pragma := range registryPragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("registry pragma %q: %w", pragma, err)
		}
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read registry version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("registry schema version %d is newer than supported version %d", version, schemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("stamp registry version: %w", err)
		}
	}
	return nil
}
