// Package library provides the host side of Folio: a SQLite-backed book
// database with a namespaced per-library preferences store, the column
// model for the listing, and the saved-search registry.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// InMemory opens a private in-memory library, used by tests.
const InMemory = ":memory:"

// DatabaseFileName is the library database file inside a library directory.
const DatabaseFileName = "metadata.db"

// Library is an e-book collection identified by a stable UUID.
type Library struct {
	db   *sql.DB
	path string
	id   string

	mu                sync.RWMutex
	sortSpecs         []SortSpec
	activeSearch      string
	activeRestriction string
}

// Open opens (or creates) the library at the given directory.
func Open(dir string) (*Library, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("library: path cannot be empty")
	}

	dsn := dir
	if dir != InMemory {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("library: create directory: %w", err)
		}
		dsn = filepath.Join(dir, DatabaseFileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("library: open db: %w", err)
	}
	if dir == InMemory {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	l := &Library{db: db, path: dir}
	if err := l.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Library) init() error {
	if _, err := l.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("library: set busy timeout: %w", err)
	}
	if _, err := l.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("library: create schema: %w", err)
	}
	return l.ensureUUID()
}

// ensureUUID loads the library identifier, minting one on first open.
func (l *Library) ensureUUID() error {
	var id string
	found, err := l.GetNamespaced("library", "uuid", &id)
	if err != nil {
		return err
	}
	if !found || id == "" {
		id = uuid.NewString()
		if err := l.SetNamespaced("library", "uuid", id); err != nil {
			return err
		}
	}
	l.id = id
	return nil
}

// UUID returns the stable identifier of this library.
func (l *Library) UUID() string {
	return l.id
}

// Path returns the library directory, or InMemory.
func (l *Library) Path() string {
	return l.path
}

// Close closes the underlying database.
func (l *Library) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
