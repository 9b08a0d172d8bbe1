package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"flatwatch/internal/domain"
)

func openTestSQLite(t *testing.T, path, key string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(path, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "state.db"), "")

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}

	if err := s.Save(ctx, domain.NewListingSet("1", "2", "3")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, domain.NewListingSet("2", "4")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if want := domain.NewListingSet("2", "4"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSQLiteStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	camden := openTestSQLite(t, path, "camden")
	if err := camden.Save(ctx, domain.NewListingSet("1")); err != nil {
		t.Fatal(err)
	}
	_ = camden.Close()

	hackney := openTestSQLite(t, path, "hackney")
	if _, ok, err := hackney.Load(ctx); err != nil || ok {
		t.Errorf("hackney should have no state: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s := openTestSQLite(t, path, "k")
	if err := s.Save(ctx, domain.NewListingSet("7")); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s2 := openTestSQLite(t, path, "k")
	got, ok, err := s2.Load(ctx)
	if err != nil || !ok || !got.Has("7") {
		t.Errorf("after reopen: set=%v ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteStoreRecordRun(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "state.db"), "")

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b"} {
		err := s.RecordRun(ctx, RunRecord{
			RunID:      id,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
			Found:      10 + i,
			New:        i,
			Notified:   i,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-b" || runs[0].Found != 11 {
		t.Errorf("unexpected runs: %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Errorf("started_at: got %v", runs[1].StartedAt)
	}
}

func TestSQLiteStoreKeepsDelimitersInPath(t *testing.T) {
	ctx := context.Background()
	for _, dir := range []string{"a#b", "c?d", "e%20f"} {
		path := filepath.Join(t.TempDir(), dir, "state.db")

		s := openTestSQLite(t, path, "")
		if err := s.Save(ctx, domain.NewListingSet("7")); err != nil {
			t.Fatalf("%s: save: %v", dir, err)
		}
		_ = s.Close()

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s: database not at configured path: %v", dir, err)
		}

		again := openTestSQLite(t, path, "")
		got, ok, err := again.Load(ctx)
		if err != nil || !ok || !got.Has("7") {
			t.Errorf("%s: reload: got %v ok=%v err=%v", dir, got, ok, err)
		}
	}
}
