package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sqlite is the development session store: a single-table gob KV with
// uuid session ids. It needs no migrations and no running database.
type Sqlite struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

var ErrBadName = fmt.Errorf("bad name for store")

func isLetters(s string) bool {
	for _, c := range s {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// NewSqlite creates the backing table if needed. name may only
// contain upper- or lowercase Latin letters, it is spliced into SQL.
func NewSqlite(db *sql.DB, name string) (*Sqlite, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &Sqlite{name: name, db: db}, nil
}

// get reads key into value, which must be a pointer or nil. If key is
// not present, [ErrNotFound] is returned. A nil value discards the
// stored data.
func (s *Sqlite) get(ctx context.Context, key string, value any) error {
	var v []uint8
	err := s.db.QueryRowContext(
		ctx, `SELECT value FROM `+s.name+` WHERE key = ?;`, key,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

// set inserts a new key-value pair or updates an existing one.
func (s *Sqlite) set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		key, buf.Bytes())
	return err
}

// delete removes key without checking if it existed.
func (s *Sqlite) delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(
		ctx, `DELETE FROM `+s.name+` WHERE key = ?;`, key,
	)
	return err
}

func (s *Sqlite) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM `+s.name+`;`,
	).Scan(&count)
	return count, err
}

func (s *Sqlite) Create(ctx context.Context, session *Session) error {
	session.SessionId = uuid.NewString()
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	return s.set(ctx, session.SessionId, session)
}

func (s *Sqlite) Fetch(ctx context.Context, sessionId string) (*Session, error) {
	var session Session
	if err := s.get(ctx, sessionId, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Sqlite) Update(ctx context.Context, session *Session) error {
	if err := s.get(ctx, session.SessionId, nil); err != nil {
		return err
	}
	session.UpdatedAt = time.Now().UTC()
	return s.set(ctx, session.SessionId, session)
}

func (s *Sqlite) Delete(ctx context.Context, sessionId string) error {
	return s.delete(ctx, sessionId)
}
