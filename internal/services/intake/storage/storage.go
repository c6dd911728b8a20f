// Package storage defines the draft persistence contract for the intake
// service. One in-progress record is kept per station session.
package storage

import (
	"context"

	"github.com/millfloor/chipline/internal/services/intake/domain"
)

// DraftStore persists the wizard's in-progress record keyed by session ID.
type DraftStore interface {
	// Load returns the session's draft. A missing or undecodable draft
	// degrades to the zero record with a nil error, never an error page.
	Load(ctx context.Context, sessionID string) (domain.Record, error)

	// Save overwrites the session's draft in full.
	Save(ctx context.Context, sessionID string, record domain.Record) error

	// Clear removes the session's draft. Clearing an absent draft is a no-op.
	Clear(ctx context.Context, sessionID string) error
}
