// Package sqlitecache implements a cache store in a SQLite database.
//
// Entries live in a single transients table
// holding a key, its value, and the Unix time it expires at.
package sqlitecache

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/cache"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const _schema = `CREATE TABLE IF NOT EXISTS transients (
	key     TEXT PRIMARY KEY,
	value   BLOB NOT NULL,
	expires INTEGER NOT NULL
)`

// Store is a cache.Store persisted in SQLite.
// It is safe for concurrent use.
type Store struct {
	// Now reports the current time.
	// Defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	conn *sqlite.Conn
}

var _ cache.Store = (*Store)(nil)

// Open opens or creates the database at path
// and drops entries that have already expired.
//
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (_ *Store, err error) {
	var flags []sqlite.OpenFlags
	if path == ":memory:" {
		flags = []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenMemory}
	}

	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("open %v: %w", path, err))
	}
	defer func() {
		if err != nil {
			_ = conn.Close()
		}
	}()

	if err := sqlitex.ExecuteTransient(conn, _schema, nil); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("create schema: %w", err))
	}

	s := &Store{conn: conn}
	if err := s.Purge(context.Background()); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errtrace.Wrap(s.conn.Close())
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// lock acquires the connection and arranges for
// queries to be interrupted when ctx is done.
func (s *Store) lock(ctx context.Context) (unlock func()) {
	s.mu.Lock()
	old := s.conn.SetInterrupt(ctx.Done())
	return func() {
		s.conn.SetInterrupt(old)
		s.mu.Unlock()
	}
}

// Get returns the value at key if it has not expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.lock(ctx)()

	var (
		value []byte
		found bool
	)
	err := sqlitex.Execute(s.conn,
		`SELECT value FROM transients WHERE key = ? AND (expires = 0 OR expires > ?)`,
		&sqlitex.ExecOptions{
			Args: []any{key, s.now().Unix()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				value, err = io.ReadAll(stmt.ColumnReader(0))
				found = true
				return err
			},
		})
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("read %q: %w", key, err))
	}
	if !found {
		return nil, errtrace.Wrap(cache.ErrNotFound)
	}
	return value, nil
}

// Set inserts or replaces the value at key.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	defer s.lock(ctx)()

	var expires int64
	if ttl > 0 {
		expires = s.now().Add(ttl).Unix()
	}

	err := sqlitex.Execute(s.conn,
		`INSERT OR REPLACE INTO transients (key, value, expires) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{key, value, expires}})
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("write %q: %w", key, err))
	}
	return nil
}

// Purge deletes expired entries.
func (s *Store) Purge(ctx context.Context) error {
	defer s.lock(ctx)()

	err := sqlitex.Execute(s.conn,
		`DELETE FROM transients WHERE expires != 0 AND expires <= ?`,
		&sqlitex.ExecOptions{Args: []any{s.now().Unix()}})
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("purge: %w", err))
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len(ctx context.Context) (int, error) {
	defer s.lock(ctx)()

	var n int
	err := sqlitex.Execute(s.conn, `SELECT count(*) FROM transients`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
	return n, errtrace.Wrap(err)
}
