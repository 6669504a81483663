package database

import (
	"path/filepath"
	"testing"
)

func setupTestRepo(t *testing.T) *SnapshotRepositoryImpl {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Expected no error opening database, got: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Expected no error running migrations, got: %v", err)
	}

	return NewSnapshotRepository(db)
}

func TestSaveAndLatest(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Save(SnapshotKindSchedule, []byte("first")); err != nil {
		t.Fatalf("Expected no error saving snapshot, got: %v", err)
	}
	if err := repo.Save(SnapshotKindSchedule, []byte("second")); err != nil {
		t.Fatalf("Expected no error saving snapshot, got: %v", err)
	}

	payload, fetchedAt, err := repo.Latest(SnapshotKindSchedule)
	if err != nil {
		t.Fatalf("Expected no error loading snapshot, got: %v", err)
	}
	if string(payload) != "second" {
		t.Errorf("Expected latest payload 'second', got: %s", payload)
	}
	if fetchedAt == nil {
		t.Error("Expected fetched_at to be set")
	}
}

func TestLatestEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	payload, fetchedAt, err := repo.Latest(SnapshotKindProgram)
	if err != nil {
		t.Fatalf("Expected no error for empty repository, got: %v", err)
	}
	if payload != nil || fetchedAt != nil {
		t.Errorf("Expected nil payload and timestamp, got: %s, %v", payload, fetchedAt)
	}
}

func TestLatestIsolatedByKind(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Save(SnapshotKindSchedule, []byte("schedule")); err != nil {
		t.Fatalf("Expected no error saving snapshot, got: %v", err)
	}
	if err := repo.Save(SnapshotKindProgram, []byte("program")); err != nil {
		t.Fatalf("Expected no error saving snapshot, got: %v", err)
	}

	payload, _, err := repo.Latest(SnapshotKindProgram)
	if err != nil {
		t.Fatalf("Expected no error loading snapshot, got: %v", err)
	}
	if string(payload) != "program" {
		t.Errorf("Expected program payload, got: %s", payload)
	}
}

func TestPrune(t *testing.T) {
	repo := setupTestRepo(t)

	for _, payload := range []string{"a", "b", "c", "d"} {
		if err := repo.Save(SnapshotKindNews, []byte(payload)); err != nil {
			t.Fatalf("Expected no error saving snapshot, got: %v", err)
		}
	}

	if err := repo.Prune(SnapshotKindNews, 2); err != nil {
		t.Fatalf("Expected no error pruning snapshots, got: %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Expected no error counting snapshots, got: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 snapshots after prune, got: %d", count)
	}

	payload, _, err := repo.Latest(SnapshotKindNews)
	if err != nil {
		t.Fatalf("Expected no error loading snapshot, got: %v", err)
	}
	if string(payload) != "d" {
		t.Errorf("Expected newest payload 'd' to survive prune, got: %s", payload)
	}
}

func TestSaveRejectsUnknownKind(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Save("bogus", []byte("x")); err == nil {
		t.Error("Expected error for unknown snapshot kind")
	}
}
