// Package bolt provides the bbolt-backed draft store.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	"go.etcd.io/bbolt"
)

const draftBucket = "drafts"

// Store keeps one JSON-encoded draft record per station session.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load fetches the session's draft. Missing and undecodable drafts degrade to
// the zero record so corrupt state restarts the wizard instead of failing it.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	if s == nil || s.db == nil {
		return domain.Record{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return domain.Record{}, fmt.Errorf("session id is required")
	}

	var record domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(draftBucket))
		if bucket == nil {
			return fmt.Errorf("draft bucket is missing")
		}
		payload := bucket.Get(draftKey(sessionID))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			record = domain.Record{}
		}
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}

	return record, nil
}

// Save persists the session's draft, overwriting any previous value.
func (s *Store) Save(ctx context.Context, sessionID string, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(draftBucket))
		if bucket == nil {
			return fmt.Errorf("draft bucket is missing")
		}
		return bucket.Put(draftKey(sessionID), payload)
	})
}

// Clear removes the session's draft. Clearing an absent draft succeeds.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(draftBucket))
		if bucket == nil {
			return fmt.Errorf("draft bucket is missing")
		}
		return bucket.Delete(draftKey(sessionID))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(draftBucket))
		if err != nil {
			return fmt.Errorf("create draft bucket: %w", err)
		}
		return nil
	})
}

func draftKey(sessionID string) []byte {
	return []byte(sessionID)
}
