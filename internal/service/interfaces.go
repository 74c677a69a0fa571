package service

import (
	"context"
	"time"

	"github.com/selfos/sync-server/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_service.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncService is the batch coordinator and pull-sync surface: it partitions
// client operation batches into per-type transaction groups, produces the
// incremental delta feed, reports per-type counters, and applies manual
// conflict resolutions.
type SyncService interface {
	// ProcessBatch applies a client operation batch and returns one result
	// per operation, in submission order.
	ProcessBatch(ctx context.Context, userID string, request models.BatchSyncRequest) (models.BatchSyncResponse, error)

	// GetDelta returns all changes of the requested types since the given
	// checkpoint, capped by limit across all types. A zero limit means the
	// configured default; a negative one is rejected.
	GetDelta(ctx context.Context, userID string, since time.Time, objectTypes []string, limit int) (models.DeltaResponse, error)

	// GetStatus reports per-type object counts and recent-change counts.
	GetStatus(ctx context.Context, userID string) (models.SyncStatusResponse, error)

	// ResolveConflict overwrites a conflicted object with client-merged
	// data, stamping a fresh version.
	ResolveConflict(ctx context.Context, userID, objectID string, request models.ResolveConflictRequest) (models.ResolveConflictResponse, error)

	// PurgeSoftDeleted permanently removes soft-deleted rows older than the
	// retention horizon across all types. Used by the background janitor.
	PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
