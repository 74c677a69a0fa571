package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/models"
)

func newTestSyncRepo(t *testing.T) (*syncRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	return &syncRepository{db: db, logger: db.logger}, mock
}

func mustResolve(t *testing.T, name string) registry.Definition {
	t.Helper()

	def, err := registry.Default().Resolve(name)
	if err != nil {
		t.Fatalf("failed to resolve %q: %v", name, err)
	}
	return def
}

func goalRow(version int64, updatedAt time.Time, deletedAt any) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "user_id", "version", "created_at", "updated_at", "deleted_at", "title", "description", "life_area_id", "status", "progress", "target_date"}).
		AddRow(int64(1), "user-1", version, updatedAt, updatedAt, deletedAt, "Test", "", nil, "active", 0.0, "")
}

func ptrInt64(v int64) *int64 { return &v }

func TestApplyOperations_CreateServerGeneratedID(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO goals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "tmp-1", ObjectType: "goal", Operation: models.OperationCreate, Data: models.Fields{"title": "Test"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", res.Status, res.ErrorMessage)
	}
	if res.NewVersion != 1 {
		t.Errorf("expected new_version 1, got %d", res.NewVersion)
	}
	if res.ObjectID != "tmp-1" {
		t.Errorf("expected echoed client object id, got %s", res.ObjectID)
	}
	if got := res.ServerData["id"]; got != int64(42) {
		t.Errorf("expected server-assigned id 42 in server_data, got %v", got)
	}
}

func TestApplyOperations_CreateClientProvidedID(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "media_attachment")
	ctx := context.Background()

	const objectID = "0198b2c6-2222-7abc-89ab-000000000002"

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO media_attachments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: objectID, ObjectType: "media_attachment", Operation: models.OperationCreate, Data: models.Fields{"filename": "photo.jpg"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", results[0].Status, results[0].ErrorMessage)
	}
	if got := results[0].ServerData["id"]; got != objectID {
		t.Errorf("expected client-provided id kept, got %v", got)
	}
}

func TestApplyOperations_CreateClientProvidedID_Malformed(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "media_attachment")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "not-a-uuid", ObjectType: "media_attachment", Operation: models.OperationCreate, Data: models.Fields{}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusError {
		t.Fatalf("expected error result, got %s", results[0].Status)
	}
}

func TestApplyOperations_UpdateSuccess(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(2, now, nil))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "Updated"}, IfMatchVersion: ptrInt64(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := results[0]
	if res.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", res.Status, res.ErrorMessage)
	}
	if res.NewVersion != 3 {
		t.Errorf("expected new_version 3, got %d", res.NewVersion)
	}
	if got := res.ServerData["title"]; got != "Updated" {
		t.Errorf("expected updated title in server_data, got %v", got)
	}
}

func TestApplyOperations_UpdateStaleVersionConflict(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(2, now, nil))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "Stale"}, IfMatchVersion: ptrInt64(1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := results[0]
	if res.Status != models.StatusConflict {
		t.Fatalf("expected conflict, got %s (%s)", res.Status, res.ErrorMessage)
	}
	if got := recordVersion(res.ServerData); got != 2 {
		t.Errorf("expected authoritative server version 2, got %d", got)
	}
	if res.NewVersion != 0 {
		t.Errorf("expected no new_version on conflict, got %d", res.NewVersion)
	}
}

func TestApplyOperations_UpdateLostCASRace(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(2, now, nil))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 0)) // concurrent writer won
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(3, now, nil))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "Racer"}, IfMatchVersion: ptrInt64(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusConflict {
		t.Fatalf("expected conflict after lost race, got %s", results[0].Status)
	}
	if got := recordVersion(results[0].ServerData); got != 3 {
		t.Errorf("expected winner's version 3, got %d", got)
	}
}

func TestApplyOperations_UpdateNotFound(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // unknown id: empty result set
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "999", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "X"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusError {
		t.Fatalf("expected error result, got %s", results[0].Status)
	}
}

func TestApplyOperations_DeleteIdempotent(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	// malformed id: no row can exist, the delete is a no-op success
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "not-a-number", ObjectType: "goal", Operation: models.OperationDelete},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusSuccess {
		t.Fatalf("expected idempotent success, got %s (%s)", results[0].Status, results[0].ErrorMessage)
	}
}

func TestApplyOperations_SoftDelete(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(3, now, nil))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationDelete},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", results[0].Status, results[0].ErrorMessage)
	}
	if results[0].NewVersion != 4 {
		t.Errorf("expected version bump to 4 on soft delete, got %d", results[0].NewVersion)
	}
}

func TestApplyOperations_DeleteAlreadySoftDeleted(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(3, now, now))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationDelete},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusSuccess {
		t.Fatalf("expected success for repeated delete, got %s", results[0].Status)
	}
}

func TestApplyOperations_UnsupportedOperation(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "1", ObjectType: "goal", Operation: "upsert"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Status != models.StatusError {
		t.Fatalf("expected error result for unsupported operation, got %s", results[0].Status)
	}
}

func TestApplyOperations_SecondOpSurvivesFirstFailure(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // no rows: not found
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sync_op_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT sync_op_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(1, now, nil))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sync_op_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.ApplyOperations(ctx, def, "user-1", []models.SyncOperation{
		{ObjectID: "999", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "X"}},
		{ObjectID: "1", ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "Y"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != models.StatusError {
		t.Errorf("expected first op to fail, got %s", results[0].Status)
	}
	if results[1].Status != models.StatusSuccess {
		t.Errorf("expected second op to succeed, got %s (%s)", results[1].Status, results[1].ErrorMessage)
	}
}

func TestGetRecord_MalformedIdentifier(t *testing.T) {
	repo, _ := newTestSyncRepo(t)
	def := mustResolve(t, "goal")

	_, err := repo.GetRecord(context.Background(), def, "user-1", "abc")
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
	}
}

func TestOverwriteRecord(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(5, now, now))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newVersion, err := repo.OverwriteRecord(ctx, def, "user-1", "1", models.Fields{"title": "Resolved"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newVersion != 6 {
		t.Errorf("expected resolved version 6, got %d", newVersion)
	}
}

func TestOverwriteRecord_ConcurrentWriterConflict(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(goalRow(5, now, now))
	mock.ExpectExec("UPDATE goals SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.OverwriteRecord(ctx, def, "user-1", "1", models.Fields{"title": "Resolved"})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestOverwriteRecord_NotFound(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.OverwriteRecord(ctx, def, "user-1", "999", models.Fields{"title": "X"})
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestChangesSince(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"id", "user_id", "version", "created_at", "updated_at", "deleted_at", "title", "description", "life_area_id", "status", "progress", "target_date"}).
		AddRow(int64(1), "user-1", int64(2), now.Add(-time.Hour), now.Add(-time.Minute), nil, "A", "", nil, "active", 0.0, "").
		AddRow(int64(2), "user-1", int64(4), now.Add(-time.Hour), now, now, "B", "", nil, "active", 0.0, "")

	mock.ExpectQuery("SELECT .+ FROM goals").
		WillReturnRows(rows)

	changes, err := repo.ChangesSince(ctx, def, "user-1", now.Add(-2*time.Hour), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].ObjectID != "1" || changes[0].Deleted {
		t.Errorf("expected live change for object 1, got %+v", changes[0])
	}
	if changes[1].ObjectID != "2" || !changes[1].Deleted {
		t.Errorf("expected soft-deleted change for object 2, got %+v", changes[1])
	}
	if changes[0].Version != 2 || changes[1].Version != 4 {
		t.Errorf("unexpected versions: %d, %d", changes[0].Version, changes[1].Version)
	}
	if got := changes[0].Data["title"]; got != "A" {
		t.Errorf("expected domain data in change, got %v", got)
	}
	if _, leaked := changes[0].Data["user_id"]; leaked {
		t.Error("bookkeeping columns must not leak into change data")
	}
}

func TestCountObjects(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	total, recent, err := repo.CountObjects(ctx, def, "user-1", time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12 || recent != 3 {
		t.Errorf("expected total=12 recent=3, got total=%d recent=%d", total, recent)
	}
}

func TestPurgeSoftDeleted(t *testing.T) {
	repo, mock := newTestSyncRepo(t)
	def := mustResolve(t, "goal")
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM goals").
		WillReturnResult(sqlmock.NewResult(0, 7))

	purged, err := repo.PurgeSoftDeleted(ctx, def, time.Now().Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 7 {
		t.Errorf("expected 7 purged rows, got %d", purged)
	}
}

func TestPurgeSoftDeleted_SkipsHardDeleteTypes(t *testing.T) {
	repo, _ := newTestSyncRepo(t)
	def := mustResolve(t, "personal_profile")

	purged, err := repo.PurgeSoftDeleted(context.Background(), def, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 0 {
		t.Errorf("expected no purge for hard-delete type, got %d", purged)
	}
}
