// Package history persists the transcript of dispatched command lines in
// SQLite and exposes it to sessions as the "history" namespace.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwslicex "github.com/msto63/cmdscript/foundation/utils/slicex"
)

var statuses = []string{cmdlang.StatusOK, cmdlang.StatusFailed}

// Entry is one recorded command line
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	Line      string        `json:"line"`
	Namespace string        `json:"namespace,omitempty"`
	Command   string        `json:"command,omitempty"`
	Status    string        `json:"status"`
	Result    string        `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Filter defines criteria for listing entries
type Filter struct {
	SessionID string
	Status    string
	Since     time.Time
	Limit     int
	Offset    int
}

// Stats summarizes the stored transcript
type Stats struct {
	Total    int
	Failed   int
	Sessions int
}

// Store defines transcript persistence
type Store interface {
	cmdlang.Recorder

	List(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db              *sql.DB
	mu              sync.RWMutex
	maxResultLength int
}

var _ Store = (*SQLiteStore)(nil)

// Config holds configuration for the SQLite store
type Config struct {
	Path string
	// MaxResultLength truncates stored results (default: 4096)
	MaxResultLength int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:            "./data/history.db",
		MaxResultLength: 4096,
	}
}

// NewSQLiteStore opens or creates the transcript database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.MaxResultLength <= 0 {
		cfg.MaxResultLength = DefaultConfig().MaxResultLength
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, storageError(err, "failed to create directory", "history.NewSQLiteStore")
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, storageError(err, "failed to open database", "history.NewSQLiteStore")
	}
	// a single connection keeps :memory: databases consistent
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, maxResultLength: cfg.MaxResultLength}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "history.NewSQLiteStore")
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		session_id TEXT NOT NULL,
		line TEXT NOT NULL,
		namespace TEXT,
		command TEXT,
		status TEXT NOT NULL,
		result TEXT,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
	CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a dispatched line
func (s *SQLiteStore) Record(ctx context.Context, rec *cmdlang.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := rec.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	result := rec.Result
	if len(result) > s.maxResultLength {
		result = result[:s.maxResultLength]
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, timestamp, session_id, line, namespace, command, status, result, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), timestamp.UTC(), rec.SessionID, rec.Line, rec.Namespace, rec.Command,
		rec.Status, result, rec.Error, rec.Duration.Milliseconds())
	if err != nil {
		return storageError(err, "failed to insert history entry", "history.Record")
	}
	return nil
}

// List returns entries matching filter, newest first
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	if filter.Status != "" && !mdwslicex.Contains(statuses, filter.Status) {
		return nil, mdwerror.New("unknown status '"+filter.Status+"'").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.List").
			WithDetail("statuses", statuses)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, session_id, line, namespace, command, status, result, error, duration_ms
		FROM history WHERE 1=1`
	var args []interface{}

	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query history", "history.List")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var namespace, command, result, errText sql.NullString
		var durationMs int64
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.SessionID, &entry.Line, &namespace,
			&command, &entry.Status, &result, &errText, &durationMs); err != nil {
			return nil, storageError(err, "failed to scan history entry", "history.List")
		}
		entry.Namespace = namespace.String
		entry.Command = command.String
		entry.Result = result.String
		entry.Error = errText.String
		entry.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to read history", "history.List")
	}
	return entries, nil
}

// Stats returns transcript statistics
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT session_id)
		FROM history
	`, cmdlang.StatusFailed).Scan(&stats.Total, &stats.Failed, &stats.Sessions)
	if err != nil {
		return nil, storageError(err, "failed to compute history stats", "history.Stats")
	}
	return &stats, nil
}

// Prune removes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE timestamp < ?", time.Now().Add(-olderThan).UTC())
	if err != nil {
		return 0, storageError(err, "failed to prune history", "history.Prune")
	}
	return res.RowsAffected()
}

// Clear removes every entry
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM history")
	if err != nil {
		return 0, storageError(err, "failed to clear history", "history.Clear")
	}
	return res.RowsAffected()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storageError(err error, message, operation string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeStorageError).
		WithOperation(operation)
}
