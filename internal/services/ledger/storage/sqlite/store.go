package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/millfloor/chipline/internal/platform/storage/sqlitemigrate"
	"github.com/millfloor/chipline/internal/services/ledger/storage"
	"github.com/millfloor/chipline/internal/services/ledger/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed submission journal persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a journal store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordSubmission persists one accepted ledger submission.
func (s *Store) RecordSubmission(ctx context.Context, record storage.SubmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	record.ID = strings.TrimSpace(record.ID)
	record.BoxNumber = strings.TrimSpace(record.BoxNumber)
	record.Product = strings.TrimSpace(record.Product)
	record.NetWeight = strings.TrimSpace(record.NetWeight)
	record.OperatorName = strings.TrimSpace(record.OperatorName)
	record.Destination = strings.TrimSpace(record.Destination)
	record.Date = strings.TrimSpace(record.Date)
	record.Time = strings.TrimSpace(record.Time)
	if record.ID == "" {
		return fmt.Errorf("journal id is required")
	}
	if record.BoxNumber == "" {
		return fmt.Errorf("box number is required")
	}
	if record.Product == "" {
		return fmt.Errorf("product is required")
	}
	if record.NetWeight == "" {
		return fmt.Errorf("net weight is required")
	}
	if record.OperatorName == "" {
		return fmt.Errorf("operator name is required")
	}
	if record.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if record.SheetRow <= 0 {
		return fmt.Errorf("sheet row must be greater than zero")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO ledger_journal (
	id,
	box_number,
	product,
	net_weight,
	operator_name,
	destination,
	entry_date,
	entry_time,
	sheet_row,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		record.ID,
		record.BoxNumber,
		record.Product,
		record.NetWeight,
		record.OperatorName,
		record.Destination,
		record.Date,
		record.Time,
		record.SheetRow,
		record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Stats reports the journal row count and the newest submission time.
func (s *Store) Stats(ctx context.Context) (storage.JournalStats, error) {
	if err := ctx.Err(); err != nil {
		return storage.JournalStats{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.JournalStats{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COALESCE(MAX(created_at), 0)
FROM ledger_journal
`)
	var count int
	var newest int64
	if err := row.Scan(&count, &newest); err != nil {
		return storage.JournalStats{}, fmt.Errorf("journal stats: %w", err)
	}

	stats := storage.JournalStats{Rows: count}
	if newest > 0 {
		stats.LastSavedAt = time.UnixMilli(newest).UTC()
	}
	return stats, nil
}

var _ storage.Journal = (*Store)(nil)
