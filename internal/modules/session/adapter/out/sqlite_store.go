package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"rehearse/internal/modules/session/domain"
	sessionout "rehearse/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the session collection and the readiness scalar in a
// single key-value table. The collection is written as one JSON blob under a
// fixed key, matching the append-rarely/read-rarely access pattern.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ sessionout.SessionStore = (*SQLiteStore)(nil)

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) put(ctx context.Context, key string, value []byte) error {
	const stmt = `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, sessions []domain.Session) error {
	blob, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	return s.put(ctx, domain.StoreKey, blob)
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]domain.Session, error) {
	blob, ok, err := s.get(ctx, domain.StoreKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var sessions []domain.Session
	if err := json.Unmarshal(blob, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteStore) SaveReadiness(ctx context.Context, value float64) error {
	return s.put(ctx, domain.ReadinessKey, []byte(strconv.FormatFloat(value, 'f', -1, 64)))
}

func (s *SQLiteStore) LoadReadiness(ctx context.Context) (float64, error) {
	blob, ok, err := s.get(ctx, domain.ReadinessKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	value, err := strconv.ParseFloat(string(blob), 64)
	if err != nil {
		return 0, fmt.Errorf("decode readiness: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
