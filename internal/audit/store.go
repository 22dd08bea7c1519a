// Package audit keeps an append-only ledger of the operations the
// orchestrator ran, one row per tool call.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Call is one executed operation.
type Call struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	RequestID      string         `json:"request_id"`
	Operation      string         `json:"operation"`
	Arguments      map[string]any `json:"arguments,omitempty"`
	OK             bool           `json:"ok"`
	Error          string         `json:"error,omitempty"`
	ActionRequired string         `json:"action_required,omitempty"`
	DurationMS     int64          `json:"duration_ms"`
}

// Store persists calls in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already-open database and creates the schema.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS tool_calls (
		id              TEXT PRIMARY KEY,
		timestamp       TEXT NOT NULL,
		request_id      TEXT NOT NULL,
		operation       TEXT NOT NULL,
		arguments       TEXT,
		ok              INTEGER NOT NULL,
		error           TEXT,
		action_required TEXT,
		duration_ms     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_timestamp ON tool_calls(timestamp);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_request ON tool_calls(request_id);
	`)
	return err
}

// Record appends a call. An empty ID gets a UUIDv7.
func (s *Store) Record(ctx context.Context, c Call) error {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate tool call ID: %w", err)
		}
		c.ID = id.String()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	var args []byte
	if len(c.Arguments) > 0 {
		var err error
		if args, err = json.Marshal(c.Arguments); err != nil {
			return fmt.Errorf("encode arguments for %s: %w", c.Operation, err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls
			(id, timestamp, request_id, operation, arguments, ok, error, action_required, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Timestamp.UTC().Format(time.RFC3339Nano),
		c.RequestID,
		c.Operation,
		string(args),
		c.OK,
		c.Error,
		c.ActionRequired,
		c.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert tool call: %w", err)
	}
	return nil
}

// Recent returns up to limit calls, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, request_id, operation, COALESCE(arguments, ''), ok,
		        COALESCE(error, ''), COALESCE(action_required, ''), duration_ms
		 FROM tool_calls
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query tool calls: %w", err)
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		var (
			c        Call
			ts, args string
		)
		if err := rows.Scan(&c.ID, &ts, &c.RequestID, &c.Operation, &args, &c.OK,
			&c.Error, &c.ActionRequired, &c.DurationMS); err != nil {
			return nil, fmt.Errorf("scan tool call: %w", err)
		}
		if c.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp of tool call %s: %w", c.ID, err)
		}
		if args != "" {
			if err := json.Unmarshal([]byte(args), &c.Arguments); err != nil {
				return nil, fmt.Errorf("decode arguments of tool call %s: %w", c.ID, err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ForRequest returns the calls of one turn in execution order.
func (s *Store) ForRequest(ctx context.Context, requestID string) ([]Call, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, ok, COALESCE(error, ''), COALESCE(action_required, '')
		 FROM tool_calls WHERE request_id = ? ORDER BY timestamp, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query tool calls for %s: %w", requestID, err)
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		c := Call{RequestID: requestID}
		if err := rows.Scan(&c.ID, &c.Operation, &c.OK, &c.Error, &c.ActionRequired); err != nil {
			return nil, fmt.Errorf("scan tool call: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
