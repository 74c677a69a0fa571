package http

import (
	"errors"
	"net/http"

	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/internal/service"
	"github.com/selfos/sync-server/internal/store"
	"github.com/selfos/sync-server/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,
	service.ErrInvalidDeltaLimit:       http.StatusBadRequest,

	validators.ErrUnsupportedType:     http.StatusBadRequest,
	validators.ErrUnknownField:        http.StatusBadRequest,
	validators.ErrNoOperations:        http.StatusBadRequest,
	validators.ErrTooManyOperations:   http.StatusBadRequest,
	validators.ErrInvalidObjectType:   http.StatusBadRequest,
	validators.ErrInvalidOperation:    http.StatusBadRequest,
	validators.ErrInvalidObjectID:     http.StatusBadRequest,
	validators.ErrNoDataForWrite:      http.StatusBadRequest,
	validators.ErrInvalidVersion:      http.StatusBadRequest,
	validators.ErrResolutionNeedsData: http.StatusBadRequest,

	registry.ErrUnknownObjectType: http.StatusBadRequest,

	store.ErrMalformedIdentifier: http.StatusBadRequest,
	store.ErrObjectNotFound:      http.StatusNotFound,
	store.ErrVersionConflict:     http.StatusConflict,
	store.ErrEmailAlreadyExists:  http.StatusConflict,
	store.ErrNoUserWasFound:      http.StatusNotFound,

	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrPreparingQuery:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
