package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flatwatch/internal/domain"
)

const fileFormatVersion = 1

// fileState is the on-disk document:
//
//	{"version": 1, "updated_at": "2026-10-18T09:00:00Z", "listings": ["111", "222"]}
//
// Listings are sorted so the file diffs cleanly between runs.
type fileState struct {
	Version   int                `json:"version"`
	UpdatedAt time.Time          `json:"updated_at"`
	Listings  []domain.ListingID `json:"listings"`
}

// FileStore keeps the listing set in a single JSON file.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Load(ctx context.Context) (domain.ListingSet, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistErr("read "+s.path, err)
	}

	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, false, persistErr("decode "+s.path, err)
	}
	if st.Version != fileFormatVersion {
		return nil, false, persistErr("decode "+s.path, fmt.Errorf("unsupported version %d", st.Version))
	}

	return domain.NewListingSet(st.Listings...), true, nil
}

// Save writes to a temp file next to the target and renames it into place,
// so a crash mid-write leaves the previous state intact.
func (s *FileStore) Save(ctx context.Context, ids domain.ListingSet) error {
	st := fileState{
		Version:   fileFormatVersion,
		UpdatedAt: s.now().UTC().Truncate(time.Second),
		Listings:  ids.Sorted(),
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return persistErr("encode", err)
	}
	b = append(b, '\n')

	if err := writeAtomic(s.path, b); err != nil {
		return persistErr("write "+s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
