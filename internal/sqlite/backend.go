// Package sqlite implements the SQLite backing store for aiki repositories.
// Entities of every kind share one records table; each row holds the stored
// record as JSON, addressed by kind, group id and entity key.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

// Backend owns the SQLite database handle shared by all Records.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	path     string
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach to open the database.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens (creating if needed) the database at path and ensures the
// schema exists. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if path == "" {
		return fmt.Errorf("%w: database path must not be empty", types.ErrConfiguration)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(createRecords); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.db = db
	b.path = path
	b.attached = true
	b.logger.Debug("sqlite backend attached", "path", path)
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	b.logger.Debug("sqlite backend detached", "path", b.path)
	return nil
}

// Path returns the database location of the last Attach.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}
