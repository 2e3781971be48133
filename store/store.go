// Package store persists entries, ownership rows, field values and the
// site and type catalogs in a SQLite database. It implements every storage
// interface the entry package declares.
package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/entry"
)

const defaultPoolSize = 10

const schema = `
CREATE TABLE IF NOT EXISTS sites (
	id           INTEGER PRIMARY KEY,
	handle       TEXT NOT NULL UNIQUE,
	language     TEXT NOT NULL DEFAULT '',
	group_id     INTEGER NOT NULL DEFAULT 0,
	primary_site INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entry_types (
	handle                 TEXT PRIMARY KEY,
	name                   TEXT NOT NULL DEFAULT '',
	template               TEXT NOT NULL DEFAULT '',
	use_template_in_editor INTEGER NOT NULL DEFAULT 0,
	has_title              INTEGER NOT NULL DEFAULT 1,
	icon                   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entries (
	id           INTEGER PRIMARY KEY,
	uid          TEXT NOT NULL,
	type         TEXT NOT NULL,
	field_id     INTEGER NOT NULL DEFAULT 0,
	owner_id     INTEGER NOT NULL DEFAULT 0,
	site_id      INTEGER NOT NULL DEFAULT 0,
	title        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'live',
	image        TEXT NOT NULL DEFAULT '',
	summary      TEXT NOT NULL DEFAULT '',
	draft_name   TEXT NOT NULL DEFAULT '',
	revision_of  INTEGER NOT NULL DEFAULT 0,
	deleted      INTEGER NOT NULL DEFAULT 0,
	date_created TEXT NOT NULL DEFAULT '',
	date_updated TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_owner ON entries (owner_id, site_id, field_id);

CREATE TABLE IF NOT EXISTS entry_ownership (
	element_id INTEGER NOT NULL,
	owner_id   INTEGER NOT NULL,
	site_id    INTEGER NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (element_id, owner_id, site_id)
);

CREATE INDEX IF NOT EXISTS idx_ownership_owner ON entry_ownership (owner_id, site_id);

CREATE TABLE IF NOT EXISTS field_values (
	owner_id     INTEGER NOT NULL,
	site_id      INTEGER NOT NULL,
	field_id     INTEGER NOT NULL,
	value        TEXT NOT NULL DEFAULT '',
	date_updated TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (owner_id, site_id, field_id)
);
`

// Store wraps a SQLite connection pool.
type Store struct {
	pool *sqlitex.Pool
	log  *zap.Logger
}

var (
	_ entry.Source         = (*Store)(nil)
	_ entry.TypeSource     = (*Store)(nil)
	_ entry.OwnershipStore = (*Store)(nil)
	_ entry.ValueStore     = (*Store)(nil)
	_ entry.Lifecycle      = (*Store)(nil)
)

// Open creates or opens the database at path and prepares the schema.
// Memory databases always run on a single connection so every caller sees
// the same data.
func Open(ctx context.Context, path string, poolSize int, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	flags := sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI
	if path == ":memory:" {
		flags = sqlite.OpenReadWrite | sqlite.OpenMemory
		poolSize = 1
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{Flags: flags, PoolSize: poolSize})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	s := &Store{pool: pool, log: log.Named("store")}
	if err := s.prepare(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("preparing schema: %w", err)
	}
	defer s.pool.Put(conn)
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("preparing schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// placeholders renders n comma separated binding markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
