// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/internal/store"
	"github.com/selfos/sync-server/models"
)

// syncService is the concrete implementation of SyncService. It owns no
// per-type logic: everything type-specific is resolved through the model
// registry and handed to the registry-driven repository.
type syncService struct {
	syncRepository store.SyncRepository
	registry       *registry.Registry

	// deltaLimit is the default cap on one delta response when the client
	// does not pass an explicit limit.
	deltaLimit int

	// statusWindow is the look-back period counted as "recent" by the
	// status report.
	statusWindow time.Duration

	logger *logger.Logger
}

// NewSyncService constructs a SyncService over the given repository and
// model registry.
func NewSyncService(syncRepository store.SyncRepository, reg *registry.Registry, cfg config.Sync, logger *logger.Logger) SyncService {
	return &syncService{
		syncRepository: syncRepository,
		registry:       reg,
		deltaLimit:     cfg.DeltaLimit,
		statusWindow:   cfg.StatusWindow,
		logger:         logger,
	}
}

// operationGroup is one per-type slice of a batch, remembering where each
// operation sat in the original request so results can be reassembled in
// submission order.
type operationGroup struct {
	typeName string
	indices  []int
	ops      []models.SyncOperation
}

// ProcessBatch implements SyncService.
//
// The batch is partitioned into per-type groups that preserve submission
// order within each type. Every group runs in its own transaction, so a
// failure in one type never rolls back another type's operations. An
// unresolvable type name fails only its own group's operations.
func (s *syncService) ProcessBatch(ctx context.Context, userID string, request models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	log := logger.FromContext(ctx)

	groups := partitionByType(request.Operations)
	results := make([]models.SyncResult, len(request.Operations))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return models.BatchSyncResponse{}, err
		}

		def, err := s.registry.Resolve(group.typeName)
		if err != nil {
			for i, idx := range group.indices {
				results[idx] = models.SyncResult{
					ObjectID:     group.ops[i].ObjectID,
					Status:       models.StatusError,
					ErrorMessage: err.Error(),
				}
			}
			continue
		}

		groupResults, err := s.syncRepository.ApplyOperations(ctx, def, userID, group.ops)
		if err != nil {
			log.Err(err).Str("object_type", group.typeName).Msg("operation group failed")
			for i, idx := range group.indices {
				results[idx] = models.SyncResult{
					ObjectID:     group.ops[i].ObjectID,
					Status:       models.StatusError,
					ErrorMessage: "operation group failed",
				}
			}
			continue
		}

		for i, idx := range group.indices {
			results[idx] = groupResults[i]
		}
	}

	log.Info().
		Str("client_id", request.ClientID).
		Int("operations", len(request.Operations)).
		Int("groups", len(groups)).
		Msg("processed sync batch")

	return models.BatchSyncResponse{Results: results}, nil
}

// partitionByType splits operations into groups keyed by object type,
// keeping submission order both across first appearances and inside each
// group.
func partitionByType(ops []models.SyncOperation) []operationGroup {
	index := make(map[string]int)
	groups := make([]operationGroup, 0)

	for i, op := range ops {
		gi, seen := index[op.ObjectType]
		if !seen {
			gi = len(groups)
			index[op.ObjectType] = gi
			groups = append(groups, operationGroup{typeName: op.ObjectType})
		}
		groups[gi].indices = append(groups[gi].indices, i)
		groups[gi].ops = append(groups[gi].ops, op)
	}

	return groups
}

// GetDelta implements SyncService.
//
// Changes are collected per type, merged, sorted by change time ascending,
// and capped by limit across all types. A record created after the
// checkpoint comes back as a create, a live record updated after it as an
// update, and a soft-deleted record as a delete carrying no data.
func (s *syncService) GetDelta(ctx context.Context, userID string, since time.Time, objectTypes []string, limit int) (models.DeltaResponse, error) {
	log := logger.FromContext(ctx)

	if limit < 0 {
		return models.DeltaResponse{}, ErrInvalidDeltaLimit
	}
	if limit == 0 {
		limit = s.deltaLimit
	}

	typeNames := objectTypes
	if len(typeNames) == 0 {
		typeNames = s.registry.Names()
	}

	changes := make([]models.DeltaChange, 0, limit)
	for _, name := range typeNames {
		if err := ctx.Err(); err != nil {
			return models.DeltaResponse{}, err
		}
		// Once the cap is already exceeded, the response is full whatever
		// the remaining types hold; they surface on the next delta request.
		if len(changes) > limit {
			break
		}

		def, err := s.registry.Resolve(name)
		if err != nil {
			return models.DeltaResponse{}, err
		}
		if !def.HasUpdatedAt {
			// not diffable, nothing to report
			continue
		}

		// one extra row per type to detect truncation
		records, err := s.syncRepository.ChangesSince(ctx, def, userID, since, uint64(limit)+1)
		if err != nil {
			log.Err(err).Str("object_type", name).Msg("delta query failed")
			return models.DeltaResponse{}, err
		}

		for _, record := range records {
			changes = append(changes, toDeltaChange(def, record, since))
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Timestamp < changes[j].Timestamp
	})

	hasMore := len(changes) > limit
	if hasMore {
		changes = changes[:limit]
	}

	return models.DeltaResponse{
		Changes:          changes,
		CurrentTimestamp: time.Now().UTC().UnixMilli(),
		HasMore:          hasMore,
	}, nil
}

// toDeltaChange classifies one changed record into a synthetic operation.
func toDeltaChange(def registry.Definition, record store.ChangeRecord, since time.Time) models.DeltaChange {
	change := models.DeltaChange{
		ObjectID:   record.ObjectID,
		ObjectType: def.Name,
		Version:    record.Version,
		Timestamp:  record.UpdatedAt.UnixMilli(),
	}

	switch {
	case record.Deleted:
		change.Operation = models.OperationDelete
	case record.CreatedAt.After(since):
		change.Operation = models.OperationCreate
		change.Data = record.Data
	default:
		change.Operation = models.OperationUpdate
		change.Data = record.Data
	}

	return change
}

// GetStatus implements SyncService.
func (s *syncService) GetStatus(ctx context.Context, userID string) (models.SyncStatusResponse, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	recentSince := now.Add(-s.statusWindow)

	statuses := make(map[string]models.TypeSyncStatus, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		if err := ctx.Err(); err != nil {
			return models.SyncStatusResponse{}, err
		}

		def, err := s.registry.Resolve(name)
		if err != nil {
			return models.SyncStatusResponse{}, err
		}

		total, recent, err := s.syncRepository.CountObjects(ctx, def, userID, recentSince)
		if err != nil {
			log.Err(err).Str("object_type", name).Msg("status count failed")
			return models.SyncStatusResponse{}, err
		}

		statuses[name] = models.TypeSyncStatus{
			TotalObjects:  total,
			RecentChanges: recent,
		}
	}

	return models.SyncStatusResponse{
		ObjectTypes:   statuses,
		SyncTimestamp: now.UnixMilli(),
	}, nil
}

// ResolveConflict implements SyncService. The client-merged data always
// wins: it is written over the stored record with a fresh version stamp.
func (s *syncService) ResolveConflict(ctx context.Context, userID, objectID string, request models.ResolveConflictRequest) (models.ResolveConflictResponse, error) {
	log := logger.FromContext(ctx)

	def, err := s.registry.Resolve(request.ObjectType)
	if err != nil {
		return models.ResolveConflictResponse{}, err
	}

	// Confirm the contested record exists and belongs to this user before
	// stamping the merged data over it.
	if _, err = s.syncRepository.GetRecord(ctx, def, userID, objectID); err != nil {
		if !errors.Is(err, store.ErrObjectNotFound) && !errors.Is(err, store.ErrMalformedIdentifier) {
			log.Err(err).Str("object_type", def.Name).Str("object_id", objectID).Msg("conflict lookup failed")
		}
		return models.ResolveConflictResponse{}, err
	}

	newVersion, err := s.syncRepository.OverwriteRecord(ctx, def, userID, objectID, request.Data)
	if err != nil {
		if !errors.Is(err, store.ErrObjectNotFound) && !errors.Is(err, store.ErrMalformedIdentifier) {
			log.Err(err).Str("object_type", def.Name).Str("object_id", objectID).Msg("conflict resolution failed")
		}
		return models.ResolveConflictResponse{}, err
	}

	log.Info().
		Str("object_type", def.Name).
		Str("object_id", objectID).
		Int64("new_version", newVersion).
		Msg("conflict resolved")

	return models.ResolveConflictResponse{
		ObjectID:   objectID,
		Status:     models.StatusResolved,
		NewVersion: newVersion,
	}, nil
}

// PurgeSoftDeleted implements SyncService.
func (s *syncService) PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	var purged int64

	for _, name := range s.registry.Names() {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		def, err := s.registry.Resolve(name)
		if err != nil {
			return purged, err
		}

		n, err := s.syncRepository.PurgeSoftDeleted(ctx, def, olderThan)
		if err != nil {
			return purged, err
		}
		purged += n
	}

	return purged, nil
}
