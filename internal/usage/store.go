// Package usage records the tokens and cost of every model call the
// assistant makes. Rows are append-only and aggregated by time window.
package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/legacyprime/foreman/internal/config"
)

// Purposes of a model call.
const (
	PurposeAssistant = "assistant" // the conversation itself
	PurposeReceipt   = "receipt"
	PurposeTakeoff   = "takeoff"
)

// Record is one model call.
type Record struct {
	ID           string
	Timestamp    time.Time
	RequestID    string
	Model        string
	Provider     string // "openai", "anthropic"
	Purpose      string
	Round        int // 1 or 2 for assistant calls, 0 otherwise
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Summary holds totals over a window.
type Summary struct {
	Calls        int     `json:"calls"`
	Requests     int     `json:"requests"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Store is the SQLite usage ledger. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// NewStore opens the ledger at dbPath, creating the schema on first
// use.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open usage database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate usage schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS model_calls (
		id            TEXT PRIMARY KEY,
		timestamp     TEXT NOT NULL,
		request_id    TEXT NOT NULL,
		model         TEXT NOT NULL,
		provider      TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		round         INTEGER NOT NULL DEFAULT 0,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		cost_usd      REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_model_calls_timestamp ON model_calls(timestamp);
	CREATE INDEX IF NOT EXISTS idx_model_calls_request ON model_calls(request_id);
	`)
	return err
}

// Record persists rec. An empty ID gets a UUIDv7 and an empty Purpose
// defaults to PurposeAssistant.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate usage record ID: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if rec.Purpose == "" {
		rec.Purpose = PurposeAssistant
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO model_calls
			(id, timestamp, request_id, model, provider, purpose, round,
			 input_tokens, output_tokens, cost_usd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.RequestID,
		rec.Model,
		rec.Provider,
		rec.Purpose,
		rec.Round,
		rec.InputTokens,
		rec.OutputTokens,
		rec.CostUSD,
	)
	if err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

const totals = `COUNT(*), COUNT(DISTINCT request_id), COALESCE(SUM(input_tokens), 0),
	COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0)`

// Summary returns totals for calls within [start, end).
func (s *Store) Summary(ctx context.Context, start, end time.Time) (*Summary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+totals+` FROM model_calls WHERE timestamp >= ? AND timestamp < ?`,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)

	var sum Summary
	if err := row.Scan(&sum.Calls, &sum.Requests, &sum.InputTokens, &sum.OutputTokens, &sum.CostUSD); err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	return &sum, nil
}

// SummaryByModel returns per-model totals within [start, end).
func (s *Store) SummaryByModel(ctx context.Context, start, end time.Time) (map[string]*Summary, error) {
	return s.groupedBy(ctx, "model", start, end)
}

// SummaryByPurpose returns per-purpose totals within [start, end).
func (s *Store) SummaryByPurpose(ctx context.Context, start, end time.Time) (map[string]*Summary, error) {
	return s.groupedBy(ctx, "purpose", start, end)
}

func (s *Store) groupedBy(ctx context.Context, column string, start, end time.Time) (map[string]*Summary, error) {
	// column only ever comes from the methods above.
	query := fmt.Sprintf(
		`SELECT %s, `+totals+`
		 FROM model_calls
		 WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY %s
		 ORDER BY SUM(cost_usd) DESC`,
		column, column,
	)

	rows, err := s.db.QueryContext(ctx, query,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query usage by %s: %w", column, err)
	}
	defer rows.Close()

	result := make(map[string]*Summary)
	for rows.Next() {
		var key string
		var sum Summary
		if err := rows.Scan(&key, &sum.Calls, &sum.Requests, &sum.InputTokens, &sum.OutputTokens, &sum.CostUSD); err != nil {
			return nil, fmt.Errorf("scan usage by %s: %w", column, err)
		}
		result[key] = &sum
	}
	return result, rows.Err()
}

// ComputeCost prices a call from the configured table. Models missing
// from the table cost nothing.
func ComputeCost(model string, inputTokens, outputTokens int, pricing map[string]config.PricingEntry) float64 {
	entry, ok := pricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*entry.InputPerMillion +
		float64(outputTokens)/1_000_000.0*entry.OutputPerMillion
}
