// Package storage defines the ledger's submission journal contract.
package storage

import (
	"context"
	"time"
)

// SubmissionRecord is one durable accepted-submission journal row.
type SubmissionRecord struct {
	ID           string
	BoxNumber    string
	Product      string
	NetWeight    string
	OperatorName string
	Destination  string
	Date         string
	Time         string
	SheetRow     int
	CreatedAt    time.Time
}

// JournalStats summarizes the journal for the status surface.
type JournalStats struct {
	Rows        int
	LastSavedAt time.Time
}

// Journal persists accepted-submission records.
type Journal interface {
	RecordSubmission(ctx context.Context, record SubmissionRecord) error
	Stats(ctx context.Context) (JournalStats, error)
}
