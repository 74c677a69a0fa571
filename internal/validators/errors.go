package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrNoOperations        = errors.New("operations list cannot be empty")
	ErrTooManyOperations   = errors.New("too many operations in one batch")
	ErrInvalidObjectType   = errors.New("object type is required")
	ErrInvalidOperation    = errors.New("operation must be create, update or delete")
	ErrInvalidObjectID     = errors.New("object id is required")
	ErrNoDataForWrite      = errors.New("data is required for create and update operations")
	ErrInvalidVersion      = errors.New("invalid version")
	ErrResolutionNeedsData = errors.New("resolution data cannot be empty")
)
