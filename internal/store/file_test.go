package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"flatwatch/internal/domain"
)

func TestFileStoreMissingFileIsNoState(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	set, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok || set != nil {
		t.Errorf("expected no state, got ok=%v set=%v", ok, set)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStore(path)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }

	want := domain.NewListingSet("222", "111", "abc")
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip: got %v, want %v", got, want)
	}

	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), `"updated_at": "2026-10-18T09:00:00Z"`) {
		t.Errorf("file missing timestamp:\n%s", b)
	}
	if strings.Index(string(b), `"111"`) > strings.Index(string(b), `"222"`) {
		t.Errorf("listings not sorted:\n%s", b)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	if err := s.Save(ctx, domain.NewListingSet("1", "2")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, domain.NewListingSet("3")); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, domain.NewListingSet("3")) {
		t.Errorf("expected overwrite, got %v", got)
	}
}

func TestFileStoreEmptySetIsState(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	if err := s.Save(ctx, domain.NewListingSet()); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load(ctx)
	if err != nil || !ok || got.Len() != 0 {
		t.Errorf("got set=%v ok=%v err=%v", got, ok, err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "state.json"))

	for i := 0; i < 3; i++ {
		if err := s.Save(context.Background(), domain.NewListingSet("1")); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files: %v", names)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	tests := map[string]string{
		"not json":    "{{{",
		"bad version": `{"version": 9, "listings": []}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := NewFileStore(path).Load(context.Background())
			if !errors.Is(err, domain.ErrPersistence) {
				t.Errorf("expected ErrPersistence, got %v", err)
			}
		})
	}
}

func TestLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	unlock, err := Lock(path)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	if _, err := Lock(path); !errors.Is(err, ErrLocked) || !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("second lock: expected ErrLocked, got %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	unlock2, err := Lock(path)
	if err != nil {
		t.Fatalf("lock after unlock: %v", err)
	}
	_ = unlock2()
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x", ""); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}
