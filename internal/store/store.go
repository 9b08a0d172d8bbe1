// Package store persists the listing set between runs.
package store

import (
	"context"
	"fmt"
	"time"

	"flatwatch/internal/domain"
)

const stagePersist = "state store"

// ListingStore holds the listing ids seen by the previous run.
type ListingStore interface {
	// Load returns the stored set and whether any state existed.
	Load(ctx context.Context) (domain.ListingSet, bool, error)
	// Save replaces the stored set.
	Save(ctx context.Context, ids domain.ListingSet) error
	Close() error
}

// RunRecord summarises one pipeline run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Found      int
	New        int
	Notified   int
	Error      string
}

// RunRecorder is implemented by stores that keep run history.
type RunRecorder interface {
	RecordRun(ctx context.Context, r RunRecord) error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend. key scopes the sqlite backend and is
// ignored by the file backend.
func Open(backend, path, key string) (ListingStore, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path, key)
	default:
		return nil, domain.Failf(stagePersist, domain.ErrPersistence, "unknown backend %q", backend)
	}
}

func persistErr(op string, err error) error {
	return domain.Fail(stagePersist, domain.ErrPersistence, fmt.Errorf("%s: %w", op, err))
}
