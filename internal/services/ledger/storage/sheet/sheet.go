// Package sheet implements the on-disk CSV ledger with its fixed header
// contract.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/millfloor/chipline/internal/services/ledger/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Sheet appends ledger rows to one CSV file. The header is stamped at open so
// every append lands under the same seven columns.
type Sheet struct {
	mu   sync.Mutex
	path string
	file *os.File
	rows int   // rows on disk, header included
	size int64 // bytes on disk, the last known-good row boundary
}

// Open loads or creates the sheet at path and enforces the header contract: a
// missing or empty file gains the canonical header, and an existing first row
// whose first seven cells do not spell the expected columns (compared
// case-insensitively) is re-stamped in place. Extra header cells and all data
// rows survive a re-stamp.
func Open(path string) (*Sheet, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sheet path is required")
	}
	cleanPath := filepath.Clean(path)

	raw, err := os.ReadFile(cleanPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	records, err := parseSheet(raw)
	if err != nil {
		return nil, err
	}

	dirty := false
	switch {
	case len(records) == 0:
		records = [][]string{domain.SheetHeader[:]}
		dirty = true
	case !headerMatches(records[0]):
		records[0] = restampHeader(records[0])
		dirty = true
	}
	// Appended rows must start on their own line even when the existing file
	// was hand-edited without a trailing newline.
	if !dirty && len(raw) > 0 && raw[len(raw)-1] != '\n' {
		dirty = true
	}
	if dirty {
		if err := writeSheet(cleanPath, records); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(cleanPath, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open sheet for append: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat sheet: %w", err)
	}

	return &Sheet{
		path: cleanPath,
		file: file,
		rows: len(records),
		size: info.Size(),
	}, nil
}

// Append writes one data row and returns its 1-based sheet row number, with
// the header counting as row 1. The encoded row goes out in a single write
// followed by a sync; on failure the file is cut back to the last known-good
// boundary so no partial row survives.
func (s *Sheet) Append(ctx context.Context, row [7]string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil {
		return 0, fmt.Errorf("sheet is not configured")
	}

	_, span := otel.Tracer("ledger").Start(ctx, "sheet.Append")
	defer span.End()

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll([][]string{row[:]}); err != nil {
		return 0, fmt.Errorf("encode row: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, fmt.Errorf("sheet is closed")
	}
	if _, err := s.file.Write(buf.Bytes()); err != nil {
		_ = s.file.Truncate(s.size)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append row")
		return 0, fmt.Errorf("append row: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Truncate(s.size)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sync row")
		return 0, fmt.Errorf("sync row: %w", err)
	}
	s.size += int64(buf.Len())
	s.rows++
	span.SetAttributes(attribute.Int("sheet.row", s.rows))
	return s.rows, nil
}

// Len reports the number of data rows currently on the sheet.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows <= 1 {
		return 0
	}
	return s.rows - 1
}

// Close releases the append handle. Appends after Close fail.
func (s *Sheet) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func parseSheet(raw []byte) ([][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	reader := csv.NewReader(bytes.NewReader(raw))
	// Hand-edited sheets carry ragged rows; only the header width matters.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	return records, nil
}

func headerMatches(first []string) bool {
	if len(first) < len(domain.SheetHeader) {
		return false
	}
	for idx, want := range domain.SheetHeader {
		if !strings.EqualFold(strings.TrimSpace(first[idx]), want) {
			return false
		}
	}
	return true
}

// restampHeader rewrites the first seven cells to the canonical column names
// and keeps whatever extra cells the plant added to the right of them.
func restampHeader(existing []string) []string {
	stamped := make([]string, 0, len(existing))
	stamped = append(stamped, domain.SheetHeader[:]...)
	if len(existing) > len(domain.SheetHeader) {
		stamped = append(stamped, existing[len(domain.SheetHeader):]...)
	}
	return stamped
}

func writeSheet(path string, records [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		_ = file.Close()
		return fmt.Errorf("write sheet: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync sheet: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close sheet: %w", err)
	}
	return nil
}
