// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/models"
)

// syncRepository is the SQL-backed implementation of [SyncRepository]. One
// instance serves every registered object type; the [registry.Definition]
// passed into each call supplies the table name, id kind, and column list.
type syncRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSyncRepository constructs a [SyncRepository] backed by the provided
// database connection and logger.
func NewSyncRepository(db *DB, logger *logger.Logger) SyncRepository {
	logger.Debug().Msg("creating sync repository")
	return &syncRepository{
		db:     db,
		logger: logger,
	}
}

// ApplyOperations processes one same-type operation group inside a single
// transaction. Each operation runs under a savepoint: on Postgres a failed
// statement poisons the whole transaction, and the savepoint keeps one bad
// operation from failing its siblings.
//
// If the final commit fails, operations that never produced a result are
// reported as errors; results recorded before the failed commit stand and
// the client reconciles through the delta feed.
func (r *syncRepository) ApplyOperations(ctx context.Context, def registry.Definition, userID string, ops []models.SyncOperation) ([]models.SyncResult, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.ApplyOperations").Str("object_type", def.Name).Msg("error beginning transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	results := make([]models.SyncResult, 0, len(ops))
	for i, op := range ops {
		if ctx.Err() != nil {
			break
		}

		savepoint := "sync_op_" + strconv.Itoa(i)
		if _, spErr := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); spErr != nil {
			results = append(results, errorResult(op.ObjectID, "transaction failed"))
			continue
		}

		var res models.SyncResult
		switch op.Operation {
		case models.OperationCreate:
			res = r.applyCreate(ctx, tx, def, userID, op)
		case models.OperationUpdate:
			res = r.applyUpdate(ctx, tx, def, userID, op)
		case models.OperationDelete:
			res = r.applyDelete(ctx, tx, def, userID, op)
		default:
			res = errorResult(op.ObjectID, fmt.Sprintf("unsupported operation %q", op.Operation))
		}

		if res.Status == models.StatusError {
			_, _ = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		} else {
			_, _ = tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint)
		}

		results = append(results, res)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*syncRepository.ApplyOperations").Str("object_type", def.Name).Msg("error committing operation group")
		for i := len(results); i < len(ops); i++ {
			results = append(results, errorResult(ops[i].ObjectID, "transaction failed: "+err.Error()))
		}
	}

	return results, nil
}

func (r *syncRepository) applyCreate(ctx context.Context, q querier, def registry.Definition, userID string, op models.SyncOperation) models.SyncResult {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	fields := domainFields(def, op.Data)

	cols := make([]string, 0, len(fields)+5)
	vals := make([]any, 0, len(fields)+5)
	add := func(col string, val any) {
		cols = append(cols, col)
		vals = append(vals, val)
	}

	if def.IDKind == registry.IDClientProvided {
		if _, err := uuid.Parse(op.ObjectID); err != nil {
			return errorResult(op.ObjectID, "malformed object identifier")
		}
		add("id", op.ObjectID)
	}
	add("user_id", userID)
	for _, col := range def.Columns {
		if value, ok := fields[col]; ok {
			add(col, value)
		}
	}
	add("version", int64(1))
	add("created_at", now)
	add("updated_at", now)

	builder := r.db.Builder().Insert(def.Table).Columns(cols...).Values(vals...)

	serverData := make(models.Fields, len(fields)+4)
	for key, value := range fields {
		serverData[key] = value
	}
	serverData["version"] = int64(1)
	serverData["created_at"] = now
	serverData["updated_at"] = now

	if def.IDKind == registry.IDClientProvided {
		query, args, err := builder.ToSql()
		if err != nil {
			return errorResult(op.ObjectID, "create failed")
		}

		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			if r.db.IsUniqueViolation(err) {
				return errorResult(op.ObjectID, ErrObjectAlreadyExists.Error())
			}

			log.Err(err).Str("func", "*syncRepository.applyCreate").Str("object_type", def.Name).Msg("error inserting record")
			return errorResult(op.ObjectID, "create failed: "+err.Error())
		}

		serverData["id"] = op.ObjectID
		return successResult(op.ObjectID, 1, serverData)
	}

	// server-assigned integer key; RETURNING works on both dialects but
	// LastInsertId is the reliable path for SQLite
	var newID int64
	if r.db.dialect == dialectPostgres {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return errorResult(op.ObjectID, "create failed")
		}

		if err = q.QueryRowContext(ctx, query, args...).Scan(&newID); err != nil {
			if r.db.IsUniqueViolation(err) {
				return errorResult(op.ObjectID, ErrObjectAlreadyExists.Error())
			}

			log.Err(err).Str("func", "*syncRepository.applyCreate").Str("object_type", def.Name).Msg("error inserting record")
			return errorResult(op.ObjectID, "create failed: "+err.Error())
		}
	} else {
		query, args, err := builder.ToSql()
		if err != nil {
			return errorResult(op.ObjectID, "create failed")
		}

		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			if r.db.IsUniqueViolation(err) {
				return errorResult(op.ObjectID, ErrObjectAlreadyExists.Error())
			}

			log.Err(err).Str("func", "*syncRepository.applyCreate").Str("object_type", def.Name).Msg("error inserting record")
			return errorResult(op.ObjectID, "create failed: "+err.Error())
		}

		if newID, err = res.LastInsertId(); err != nil {
			return errorResult(op.ObjectID, "create failed: "+err.Error())
		}
	}

	serverData["id"] = newID
	return successResult(op.ObjectID, 1, serverData)
}

func (r *syncRepository) applyUpdate(ctx context.Context, q querier, def registry.Definition, userID string, op models.SyncOperation) models.SyncResult {
	log := logger.FromContext(ctx)

	id, err := parseObjectID(def, op.ObjectID)
	if err != nil {
		return errorResult(op.ObjectID, "malformed object identifier")
	}

	current, err := r.getRecord(ctx, q, def, userID, id)
	if errors.Is(err, ErrObjectNotFound) {
		return errorResult(op.ObjectID, "object not found")
	}
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.applyUpdate").Str("object_type", def.Name).Msg("error reading record")
		return errorResult(op.ObjectID, "update failed: "+err.Error())
	}
	if def.SoftDelete && recordDeleted(current) {
		return errorResult(op.ObjectID, "object not found")
	}

	currentVersion := recordVersion(current)
	if op.IfMatchVersion != nil && *op.IfMatchVersion != currentVersion {
		return conflictResult(op.ObjectID, current)
	}

	now := time.Now().UTC()
	fields := domainFields(def, op.Data)
	query, args, err := r.db.Builder().
		Update(def.Table).
		SetMap(fields).
		Set("version", currentVersion+1).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "user_id": userID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return errorResult(op.ObjectID, "update failed")
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.applyUpdate").Str("object_type", def.Name).Msg("error updating record")
		return errorResult(op.ObjectID, "update failed: "+err.Error())
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errorResult(op.ObjectID, "update failed: "+err.Error())
	}
	if affected == 0 {
		// lost the compare-and-swap race; report the winner's state
		latest, rerr := r.getRecord(ctx, q, def, userID, id)
		if rerr != nil {
			return errorResult(op.ObjectID, "object not found")
		}
		return conflictResult(op.ObjectID, latest)
	}

	serverData := make(models.Fields, len(current))
	for key, value := range current {
		serverData[key] = value
	}
	for key, value := range fields {
		serverData[key] = value
	}
	serverData["version"] = currentVersion + 1
	serverData["updated_at"] = now

	return successResult(op.ObjectID, currentVersion+1, serverData)
}

// applyDelete is idempotent: a malformed or unknown object id means the
// object is already gone, which is exactly what the client asked for.
func (r *syncRepository) applyDelete(ctx context.Context, q querier, def registry.Definition, userID string, op models.SyncOperation) models.SyncResult {
	log := logger.FromContext(ctx)

	id, err := parseObjectID(def, op.ObjectID)
	if err != nil {
		return successResult(op.ObjectID, 0, nil)
	}

	current, err := r.getRecord(ctx, q, def, userID, id)
	if errors.Is(err, ErrObjectNotFound) {
		return successResult(op.ObjectID, 0, nil)
	}
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.applyDelete").Str("object_type", def.Name).Msg("error reading record")
		return errorResult(op.ObjectID, "delete failed: "+err.Error())
	}
	if def.SoftDelete && recordDeleted(current) {
		return successResult(op.ObjectID, 0, nil)
	}

	currentVersion := recordVersion(current)
	if op.IfMatchVersion != nil && *op.IfMatchVersion != currentVersion {
		return conflictResult(op.ObjectID, current)
	}

	now := time.Now().UTC()

	if !def.SoftDelete {
		query, args, qerr := r.db.Builder().
			Delete(def.Table).
			Where(sq.Eq{"id": id, "user_id": userID}).
			ToSql()
		if qerr != nil {
			return errorResult(op.ObjectID, "delete failed")
		}

		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*syncRepository.applyDelete").Str("object_type", def.Name).Msg("error deleting record")
			return errorResult(op.ObjectID, "delete failed: "+err.Error())
		}

		return successResult(op.ObjectID, 0, nil)
	}

	query, args, err := r.db.Builder().
		Update(def.Table).
		Set("deleted_at", now).
		Set("updated_at", now).
		Set("version", currentVersion+1).
		Where(sq.Eq{"id": id, "user_id": userID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return errorResult(op.ObjectID, "delete failed")
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.applyDelete").Str("object_type", def.Name).Msg("error soft-deleting record")
		return errorResult(op.ObjectID, "delete failed: "+err.Error())
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errorResult(op.ObjectID, "delete failed: "+err.Error())
	}
	if affected == 0 {
		latest, rerr := r.getRecord(ctx, q, def, userID, id)
		if rerr != nil || recordDeleted(latest) {
			// someone else finished the delete first
			return successResult(op.ObjectID, 0, nil)
		}
		return conflictResult(op.ObjectID, latest)
	}

	return successResult(op.ObjectID, currentVersion+1, nil)
}

// GetRecord implements [SyncRepository].
func (r *syncRepository) GetRecord(ctx context.Context, def registry.Definition, userID, objectID string) (models.Fields, error) {
	id, err := parseObjectID(def, objectID)
	if err != nil {
		return nil, err
	}

	return r.getRecord(ctx, r.db, def, userID, id)
}

// OverwriteRecord implements [SyncRepository]. Resolution data wins over
// whatever the client last sent, so the caller's version is not checked; the
// write is still guarded against concurrent server-side writers and returns
// ErrVersionConflict when it loses that race. A resolved soft-deleted record
// is revived.
func (r *syncRepository) OverwriteRecord(ctx context.Context, def registry.Definition, userID, objectID string, fields models.Fields) (int64, error) {
	log := logger.FromContext(ctx)

	id, err := parseObjectID(def, objectID)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := r.getRecord(ctx, tx, def, userID, id)
	if err != nil {
		return 0, err
	}

	currentVersion := recordVersion(current)
	newVersion := currentVersion + 1
	builder := r.db.Builder().
		Update(def.Table).
		SetMap(domainFields(def, fields)).
		Set("version", newVersion).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "user_id": userID, "version": currentVersion})
	if def.SoftDelete {
		builder = builder.Set("deleted_at", nil)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.OverwriteRecord").Str("object_type", def.Name).Msg("error overwriting record")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	// The version read above guards the write. Losing the race to a
	// concurrent writer means the resolution was computed against a stale
	// record; the caller retries with fresh server state.
	if affected, affErr := res.RowsAffected(); affErr == nil && affected == 0 {
		return 0, ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return newVersion, nil
}

// ChangesSince implements [SyncRepository].
func (r *syncRepository) ChangesSince(ctx context.Context, def registry.Definition, userID string, since time.Time, limit uint64) ([]ChangeRecord, error) {
	log := logger.FromContext(ctx)

	cols := recordColumns(def)
	query, args, err := r.db.Builder().
		Select(cols...).
		From(def.Table).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Gt{"updated_at": since}).
		OrderBy("updated_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.ChangesSince").Str("object_type", def.Name).Msg("error querying changes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows, cols)
	if err != nil {
		return nil, err
	}

	changes := make([]ChangeRecord, 0, len(records))
	for _, record := range records {
		changes = append(changes, toChangeRecord(def, record))
	}

	return changes, nil
}

// toChangeRecord lifts bookkeeping columns out of a scanned row and keeps
// only the registered domain columns as data.
func toChangeRecord(def registry.Definition, record models.Fields) ChangeRecord {
	createdAt, _ := recordTime(record, "created_at")
	updatedAt, _ := recordTime(record, "updated_at")

	return ChangeRecord{
		ObjectID:  formatObjectID(record["id"]),
		Version:   recordVersion(record),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Deleted:   recordDeleted(record),
		Data:      domainFields(def, record),
	}
}

// formatObjectID renders a primary key in its wire form.
func formatObjectID(id any) string {
	switch v := id.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// CountObjects implements [SyncRepository]. Soft-deleted rows do not count
// as live objects but do count as recent changes.
func (r *syncRepository) CountObjects(ctx context.Context, def registry.Definition, userID string, recentSince time.Time) (int64, int64, error) {
	log := logger.FromContext(ctx)

	totalBuilder := r.db.Builder().
		Select("COUNT(*)").
		From(def.Table).
		Where(sq.Eq{"user_id": userID})
	if def.SoftDelete {
		totalBuilder = totalBuilder.Where("deleted_at IS NULL")
	}

	query, args, err := totalBuilder.ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	var total int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*syncRepository.CountObjects").Str("object_type", def.Name).Msg("error counting objects")
		return 0, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = r.db.Builder().
		Select("COUNT(*)").
		From(def.Table).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Gt{"updated_at": recentSince}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	var recent int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&recent); err != nil {
		log.Err(err).Str("func", "*syncRepository.CountObjects").Str("object_type", def.Name).Msg("error counting recent changes")
		return 0, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return total, recent, nil
}

// PurgeSoftDeleted implements [SyncRepository].
func (r *syncRepository) PurgeSoftDeleted(ctx context.Context, def registry.Definition, olderThan time.Time) (int64, error) {
	if !def.SoftDelete {
		return 0, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Delete(def.Table).
		Where("deleted_at IS NOT NULL").
		Where(sq.Lt{"deleted_at": olderThan}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.PurgeSoftDeleted").Str("object_type", def.Name).Msg("error purging soft-deleted records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return purged, nil
}

// getRecord fetches one row by primary key scoped to the owning user.
// Soft-deleted rows are returned; callers decide how to treat them.
func (r *syncRepository) getRecord(ctx context.Context, q querier, def registry.Definition, userID string, id any) (models.Fields, error) {
	cols := recordColumns(def)
	query, args, err := r.db.Builder().
		Select(cols...).
		From(def.Table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreparingQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrObjectNotFound
	}

	return records[0], nil
}

// parseObjectID converts a wire-format object id into the key type the
// definition's table uses.
func parseObjectID(def registry.Definition, objectID string) (any, error) {
	if def.IDKind == registry.IDClientProvided {
		if _, err := uuid.Parse(objectID); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, objectID)
		}
		return objectID, nil
	}

	id, err := strconv.ParseInt(objectID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, objectID)
	}

	return id, nil
}

func successResult(objectID string, newVersion int64, serverData models.Fields) models.SyncResult {
	return models.SyncResult{
		ObjectID:   objectID,
		Status:     models.StatusSuccess,
		NewVersion: newVersion,
		ServerData: serverData,
	}
}

func conflictResult(objectID string, serverData models.Fields) models.SyncResult {
	return models.SyncResult{
		ObjectID:   objectID,
		Status:     models.StatusConflict,
		ServerData: serverData,
	}
}

func errorResult(objectID, message string) models.SyncResult {
	return models.SyncResult{
		ObjectID:     objectID,
		Status:       models.StatusError,
		ErrorMessage: message,
	}
}
