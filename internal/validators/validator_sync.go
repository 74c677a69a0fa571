package validators

import (
	"context"
	"fmt"

	"github.com/selfos/sync-server/models"
)

const (
	FieldOperations = "operations"
	FieldObjectID   = "object_id"
	FieldObjectType = "object_type"
	FieldOperation  = "operation"
	FieldData       = "data"
	FieldVersion    = "version"
)

// MaxBatchOperations caps one batch request. Offline clients that
// accumulated more changes split them across several requests.
const MaxBatchOperations = 500

var allowedOperations = []models.OperationType{
	models.OperationCreate,
	models.OperationUpdate,
	models.OperationDelete,
}

type SyncRequestValidator struct {
}

func NewSyncRequestValidator() Validator {
	return &SyncRequestValidator{}
}

func (v *SyncRequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.BatchSyncRequest:
		return v.validateBatchRequest(ctx, value, fields...)
	case *models.BatchSyncRequest:
		return v.validateBatchRequest(ctx, *value, fields...)

	case models.SyncOperation:
		return v.validateOperation(ctx, value, fields...)
	case *models.SyncOperation:
		return v.validateOperation(ctx, *value, fields...)

	case models.ResolveConflictRequest:
		return v.validateResolveRequest(ctx, value)
	case *models.ResolveConflictRequest:
		return v.validateResolveRequest(ctx, *value)

	default:
		return ErrUnsupportedType
	}
}

func isAllowedOperation(op models.OperationType) bool {
	for _, allowed := range allowedOperations {
		if op == allowed {
			return true
		}
	}
	return false
}

func (v *SyncRequestValidator) validateBatchRequest(ctx context.Context, request models.BatchSyncRequest, fields ...string) error {
	if len(request.Operations) == 0 {
		return ErrNoOperations
	}
	if len(request.Operations) > MaxBatchOperations {
		return fmt.Errorf("%w: %d > %d", ErrTooManyOperations, len(request.Operations), MaxBatchOperations)
	}

	for idx, op := range request.Operations {
		if err := v.validateOperation(ctx, op, fields...); err != nil {
			return fmt.Errorf("operation %d: %w", idx, err)
		}
	}

	return nil
}

func (v *SyncRequestValidator) validateOperation(_ context.Context, op models.SyncOperation, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldObjectType, FieldOperation, FieldObjectID, FieldData, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldObjectType:
			if op.ObjectType == "" {
				return ErrInvalidObjectType
			}
		case FieldOperation:
			if !isAllowedOperation(op.Operation) {
				return fmt.Errorf("%w: got %q", ErrInvalidOperation, op.Operation)
			}
		case FieldObjectID:
			// create targets an object that does not exist yet; the
			// submitted id is only an echo token there
			if op.Operation != models.OperationCreate && op.ObjectID == "" {
				return ErrInvalidObjectID
			}
		case FieldData:
			if op.Operation != models.OperationDelete && len(op.Data) == 0 {
				return ErrNoDataForWrite
			}
		case FieldVersion:
			if op.Version < 0 {
				return ErrInvalidVersion
			}
			if op.IfMatchVersion != nil && *op.IfMatchVersion < 1 {
				return ErrInvalidVersion
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *SyncRequestValidator) validateResolveRequest(_ context.Context, request models.ResolveConflictRequest) error {
	if request.ObjectType == "" {
		return ErrInvalidObjectType
	}
	if len(request.Data) == 0 {
		return ErrResolutionNeedsData
	}

	return nil
}
