package validators

import (
	"context"
	"errors"
	"testing"

	"github.com/selfos/sync-server/models"
)

func validCreateOp() models.SyncOperation {
	return models.SyncOperation{
		ObjectID:   "tmp-1",
		ObjectType: "goal",
		Operation:  models.OperationCreate,
		Data:       models.Fields{"title": "Test"},
	}
}

func TestValidateBatchRequest(t *testing.T) {
	v := NewSyncRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		request models.BatchSyncRequest
		wantErr error
	}{
		{
			name:    "valid single create",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{validCreateOp()}},
		},
		{
			name:    "empty operations",
			request: models.BatchSyncRequest{},
			wantErr: ErrNoOperations,
		},
		{
			name: "missing object type",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{
				{Operation: models.OperationCreate, Data: models.Fields{"title": "X"}},
			}},
			wantErr: ErrInvalidObjectType,
		},
		{
			name: "unsupported operation",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{
				{ObjectType: "goal", Operation: "upsert", ObjectID: "1", Data: models.Fields{"title": "X"}},
			}},
			wantErr: ErrInvalidOperation,
		},
		{
			name: "update without object id",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{
				{ObjectType: "goal", Operation: models.OperationUpdate, Data: models.Fields{"title": "X"}},
			}},
			wantErr: ErrInvalidObjectID,
		},
		{
			name: "update without data",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{
				{ObjectType: "goal", Operation: models.OperationUpdate, ObjectID: "1"},
			}},
			wantErr: ErrNoDataForWrite,
		},
		{
			name: "delete needs no data",
			request: models.BatchSyncRequest{Operations: []models.SyncOperation{
				{ObjectType: "goal", Operation: models.OperationDelete, ObjectID: "1"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.request)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateBatchRequest_TooManyOperations(t *testing.T) {
	v := NewSyncRequestValidator()

	ops := make([]models.SyncOperation, MaxBatchOperations+1)
	for i := range ops {
		ops[i] = validCreateOp()
	}

	err := v.Validate(context.Background(), models.BatchSyncRequest{Operations: ops})
	if !errors.Is(err, ErrTooManyOperations) {
		t.Fatalf("expected ErrTooManyOperations, got %v", err)
	}
}

func TestValidateOperation_IfMatchVersion(t *testing.T) {
	v := NewSyncRequestValidator()

	op := validCreateOp()
	zero := int64(0)
	op.IfMatchVersion = &zero

	err := v.Validate(context.Background(), op)
	if !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestValidateOperation_FieldScoping(t *testing.T) {
	v := NewSyncRequestValidator()

	// scoped to operation only: the missing object type is not checked
	op := models.SyncOperation{Operation: models.OperationDelete, ObjectID: "1"}
	if err := v.Validate(context.Background(), op, FieldOperation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Validate(context.Background(), op, "no_such_field"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestValidateResolveRequest(t *testing.T) {
	v := NewSyncRequestValidator()
	ctx := context.Background()

	if err := v.Validate(ctx, models.ResolveConflictRequest{ObjectType: "goal", Data: models.Fields{"title": "X"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.Validate(ctx, models.ResolveConflictRequest{Data: models.Fields{"title": "X"}}); !errors.Is(err, ErrInvalidObjectType) {
		t.Fatalf("expected ErrInvalidObjectType, got %v", err)
	}

	if err := v.Validate(ctx, models.ResolveConflictRequest{ObjectType: "goal"}); !errors.Is(err, ErrResolutionNeedsData) {
		t.Fatalf("expected ErrResolutionNeedsData, got %v", err)
	}
}

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewSyncRequestValidator()

	if err := v.Validate(context.Background(), 42); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}
