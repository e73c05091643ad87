// Package archive persists produced warning events in a local SQLite
// database. The archive is an operational convenience: it lets operators
// inspect recent warnings over HTTP without a Kafka consumer, and survives
// service restarts. The sink topic remains the source of truth.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ridgelight/warnmap-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS warnings (
	id            TEXT PRIMARY KEY,
	hazard_type   TEXT NOT NULL,
	unit          TEXT NOT NULL DEFAULT '',
	lead_time     TEXT NOT NULL DEFAULT '',
	rows          INTEGER NOT NULL,
	cols          INTEGER NOT NULL,
	max_level     INTEGER NOT NULL,
	levels        TEXT NOT NULL,
	coords        TEXT NOT NULL,
	level_counts  TEXT NOT NULL,
	clamped_low   INTEGER NOT NULL DEFAULT 0,
	clamped_high  INTEGER NOT NULL DEFAULT 0,
	issued_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_warnings_hazard_issued
	ON warnings (hazard_type, issued_at DESC);
`

// Store is a SQLite-backed warning archive.
// It implements pipeline.Archiver.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the archive database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store in tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	// modernc sqlite serializes access per connection; a single connection
	// avoids SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Record inserts the events in one transaction. Events whose ID is already
// present are skipped, so replayed batches are idempotent.
func (s *Store) Record(ctx context.Context, events []domain.WarningEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO warnings
		(id, hazard_type, unit, lead_time, rows, cols, max_level,
		 levels, coords, level_counts, clamped_low, clamped_high, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, e := range events {
		levels, coords, counts, err := marshalGrids(e)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.HazardType, e.Unit, e.LeadTime, e.Rows, e.Cols, e.MaxLevel(),
			levels, coords, counts, e.CellsClampedLow, e.CellsClampedHigh,
			e.IssuedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("archive warning %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Latest returns up to limit most recently issued warnings, newest first.
// An empty hazardType matches all hazard types.
func (s *Store) Latest(ctx context.Context, hazardType string, limit int) ([]domain.WarningEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, hazard_type, unit, lead_time, rows, cols,
		levels, coords, level_counts, clamped_low, clamped_high, issued_at
		FROM warnings`
	args := []any{}
	if hazardType != "" {
		query += ` WHERE hazard_type = ?`
		args = append(args, hazardType)
	}
	query += ` ORDER BY issued_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var events []domain.WarningEvent
	for rows.Next() {
		e, err := scanWarning(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of archived warnings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM warnings`).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func marshalGrids(e domain.WarningEvent) (levels, coords, counts []byte, err error) {
	if levels, err = json.Marshal(e.Levels); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal levels: %w", err)
	}
	if coords, err = json.Marshal(e.Coords); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal coords: %w", err)
	}
	if counts, err = json.Marshal(e.LevelCounts); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal level counts: %w", err)
	}
	return levels, coords, counts, nil
}

func scanWarning(rows *sql.Rows) (domain.WarningEvent, error) {
	var (
		e                      domain.WarningEvent
		levels, coords, counts []byte
		issuedAt               string
	)
	if err := rows.Scan(&e.ID, &e.HazardType, &e.Unit, &e.LeadTime, &e.Rows, &e.Cols,
		&levels, &coords, &counts, &e.CellsClampedLow, &e.CellsClampedHigh, &issuedAt); err != nil {
		return domain.WarningEvent{}, fmt.Errorf("scan archived warning: %w", err)
	}
	if err := json.Unmarshal(levels, &e.Levels); err != nil {
		return domain.WarningEvent{}, fmt.Errorf("unmarshal levels: %w", err)
	}
	if err := json.Unmarshal(coords, &e.Coords); err != nil {
		return domain.WarningEvent{}, fmt.Errorf("unmarshal coords: %w", err)
	}
	if err := json.Unmarshal(counts, &e.LevelCounts); err != nil {
		return domain.WarningEvent{}, fmt.Errorf("unmarshal level counts: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, issuedAt)
	if err != nil {
		return domain.WarningEvent{}, fmt.Errorf("parse issued_at: %w", err)
	}
	e.IssuedAt = ts
	return e, nil
}
