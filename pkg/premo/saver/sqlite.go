package saver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// SQLiteOptions configures a SQLiteStateSaver.
type SQLiteOptions struct {
	Session string // Rows are scoped by session; a random one is generated when empty
	Codec   Codec  // Encodes single values; defaults to JSON
}

// SessionInfo summarizes one stored session.
type SessionInfo struct {
	Session   string
	Values    int
	UpdatedAt time.Time
}

// SQLiteStateSaver stores saved values as one row per (session, tag, key).
// Several hosts can share a database file by using different sessions.
type SQLiteStateSaver struct {
	*premo.MemoryStateSaver
	db      *sql.DB
	mu      sync.RWMutex
	session string
	codec   Codec
	logger  *slog.Logger
}

// NewSQLiteStateSaver opens the database at dbPath and creates the schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteStateSaver(dbPath string, opts SQLiteOptions) (*SQLiteStateSaver, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	codec := opts.Codec
	if codec == nil {
		codec = JSON
	}

	s := &SQLiteStateSaver{
		MemoryStateSaver: premo.NewMemoryStateSaver(),
		db:               db,
		session:          session,
		codec:            codec,
		logger:           internal.GetInternalLogger().With(internal.Backend("sqlite"), internal.Session(session)),
	}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStateSaver) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS premo_state (
		session TEXT NOT NULL,
		tag TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session, tag, key)
	);
	CREATE INDEX IF NOT EXISTS idx_premo_state_updated ON premo_state(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Session returns the session this saver reads and writes.
func (s *SQLiteStateSaver) Session() string {
	return s.session
}

// Load replaces the buffered values with the session's rows.
func (s *SQLiteStateSaver) Load(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT tag, key, value FROM premo_state WHERE session = ? ORDER BY tag, key",
		s.session,
	)
	if err != nil {
		return fmt.Errorf("query state: %w", err)
	}
	defer rows.Close()

	snapshot := make(premo.Snapshot)
	for rows.Next() {
		var tag, key string
		var data []byte
		if err := rows.Scan(&tag, &key, &data); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		v, err := s.codec.UnmarshalValue(data)
		if err != nil {
			s.logger.Warn("skipping unreadable value", internal.Tag(tag), internal.StateKey(key), internal.Error(err))
			continue
		}
		if snapshot[tag] == nil {
			snapshot[tag] = make(map[string]any)
		}
		snapshot[tag][key] = v
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}

	s.Restore(snapshot)
	s.logger.Debug("state loaded", internal.Size(len(snapshot)))
	return nil
}

// Flush replaces the session's rows with the buffered values in a single
// transaction.
func (s *SQLiteStateSaver) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.Snapshot()
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin flush: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM premo_state WHERE session = ?", s.session); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO premo_state (session, tag, key, value, updated_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tag := range snapshot.Tags() {
		for key, v := range snapshot[tag] {
			data, err := s.codec.MarshalValue(v)
			if err != nil {
				return fmt.Errorf("encode %s/%s: %w", tag, key, err)
			}
			if _, err := stmt.ExecContext(ctx, s.session, tag, key, data, now); err != nil {
				return fmt.Errorf("insert %s/%s: %w", tag, key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flush: %w", err)
	}
	s.logger.Debug("state flushed", internal.Size(len(snapshot)))
	return nil
}

// Sessions lists every session stored in the database, most recent first.
func (s *SQLiteStateSaver) Sessions(ctx context.Context) ([]SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT session, COUNT(*), MAX(updated_at) FROM premo_state GROUP BY session ORDER BY MAX(updated_at) DESC, session",
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var updated int64
		if err := rows.Scan(&info.Session, &info.Values, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.UpdatedAt = time.Unix(updated, 0)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// DeleteSession removes every row of session.
func (s *SQLiteStateSaver) DeleteSession(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM premo_state WHERE session = ?", session); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStateSaver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
