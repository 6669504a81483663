package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SnapshotRepository = (*SnapshotRepositoryImpl)(nil)

// SnapshotRepositoryImpl persists raw manifest payloads so the agenda can
// be rebuilt when an upstream fetch fails.
type SnapshotRepositoryImpl struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{db: db}
}

// Save stores a new snapshot for the given kind.
func (r *SnapshotRepositoryImpl) Save(kind string, payload []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO manifest_snapshots (kind, payload, fetched_at)
		VALUES (?, ?, ?)
	`, kind, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Latest returns the most recent snapshot payload for the given kind,
// or nil when none has been stored yet.
func (r *SnapshotRepositoryImpl) Latest(kind string) ([]byte, *time.Time, error) {
	var payload []byte
	var fetchedAt time.Time

	err := r.db.QueryRow(`
		SELECT payload, fetched_at
		FROM manifest_snapshots
		WHERE kind = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, kind).Scan(&payload, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	return payload, &fetchedAt, nil
}

// Prune deletes all but the keep most recent snapshots for the given kind.
func (r *SnapshotRepositoryImpl) Prune(kind string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	_, err := r.db.Exec(`
		DELETE FROM manifest_snapshots
		WHERE kind = ?
		AND id NOT IN (
			SELECT id FROM manifest_snapshots
			WHERE kind = ?
			ORDER BY fetched_at DESC, id DESC
			LIMIT ?
		)
	`, kind, kind, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return nil
}

// Count returns the total number of stored snapshots.
func (r *SnapshotRepositoryImpl) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM manifest_snapshots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}

	return count, nil
}
