package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrKeyVersionConflict:      http.StatusConflict,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,

	store.ErrProfileNotFound: http.StatusNotFound,
	store.ErrProfileNotSaved: http.StatusInternalServerError,
	store.ErrRecordNotFound:  http.StatusNotFound,
	store.ErrRecordsNotSaved: http.StatusInternalServerError,
	store.ErrRetryableDB:     http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
