package store

import (
	"context"
	"time"

	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_store.go -package=mock

// ChangeRecord is one row of the incremental change feed, with bookkeeping
// columns lifted out of the raw field map so callers can classify the change
// without knowing how the driver encodes timestamps.
type ChangeRecord struct {
	ObjectID  string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
	Data      models.Fields
}

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

// SyncRepository is the registry-driven persistence layer shared by every
// syncable type. Callers resolve a [registry.Definition] first and pass it
// in; the repository never branches on type names.
type SyncRepository interface {
	// ApplyOperations runs one group of same-type operations inside a
	// single transaction and returns one result per operation, in order.
	// Individual operation failures become error results; only infrastructure
	// failures (begin) are returned as errors.
	ApplyOperations(ctx context.Context, def registry.Definition, userID string, ops []models.SyncOperation) ([]models.SyncResult, error)

	// GetRecord returns the record with the given object id owned by
	// userID, including bookkeeping columns. Soft-deleted rows are
	// returned too so conflict inspection can see them.
	GetRecord(ctx context.Context, def registry.Definition, userID, objectID string) (models.Fields, error)

	// OverwriteRecord force-writes the given domain fields over the
	// current record and bumps its version. Used by conflict resolution,
	// which always wins over the client's state; a concurrent server-side
	// writer still surfaces as ErrVersionConflict.
	OverwriteRecord(ctx context.Context, def registry.Definition, userID, objectID string, fields models.Fields) (int64, error)

	// ChangesSince returns up to limit records of the given type changed
	// after since, ordered by updated_at ascending. Soft-deleted rows are
	// included so callers can emit delete entries.
	ChangesSince(ctx context.Context, def registry.Definition, userID string, since time.Time, limit uint64) ([]ChangeRecord, error)

	// CountObjects returns the number of live records and the number of
	// records changed after recentSince.
	CountObjects(ctx context.Context, def registry.Definition, userID string, recentSince time.Time) (total int64, recent int64, err error)

	// PurgeSoftDeleted permanently removes soft-deleted rows older than
	// olderThan and reports how many were dropped.
	PurgeSoftDeleted(ctx context.Context, def registry.Definition, olderThan time.Time) (int64, error)
}
