package database

import (
	"time"
)

// Snapshot kinds stored in manifest_snapshots.
const (
	SnapshotKindSchedule = "schedule"
	SnapshotKindProgram  = "program"
	SnapshotKindNews     = "news"
)

type SnapshotRepository interface {
	Save(kind string, payload []byte) error
	Latest(kind string) ([]byte, *time.Time, error)
	Prune(kind string, keep int) error
	Count() (int, error)
}
