package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/app"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listRecords").Msg(app.MsgNoOwnerIDProvided)
		http.Error(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	filter, err := recordsFilterFromQuery(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listRecords").Msg("invalid filter query")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	filter.OwnerID = ownerID

	records, err := h.services.LedgerService.GetRecords(ctx, filter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Str("func", "*Handler.listRecords").Msg(app.MsgInvalidDataProvided)
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		default:
			log.Err(err).Str("func", "*Handler.listRecords").Msg("error getting ledger records")
			http.Error(w, app.MsgInternalServerError, statusFromError(err))
			return
		}
	}

	response := models.RecordsResponse{
		Records: records,
		Length:  len(records),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// recordsFilterFromQuery decodes the list query parameters: repeated
// record_uid values plus RFC 3339 from/to time bounds. The owner is not
// part of the query, it always comes from the token.
func recordsFilterFromQuery(r *http.Request) (models.RecordsFilter, error) {
	query := r.URL.Query()

	var filter models.RecordsFilter
	if uids := query["record_uid"]; len(uids) > 0 {
		filter.RecordUIDs = uids
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RecordsFilter{}, fmt.Errorf("parse `from` bound: %w", err)
		}
		filter.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RecordsFilter{}, fmt.Errorf("parse `to` bound: %w", err)
		}
		filter.To = &to
	}

	return filter, nil
}

func (h *Handler) uploadRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.uploadRecords").Msg(app.MsgNoOwnerIDProvided)
		http.Error(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	var req models.UploadRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.uploadRecords").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if len(req.Records) == 0 {
		log.Error().Str("func", "*Handler.uploadRecords").Msg(app.MsgNoRecordsProvided)
		http.Error(w, app.MsgNoRecordsProvided, http.StatusBadRequest)
		return
	}

	// Stamp ownership from the token so one owner cannot write into
	// another owner's ledger.
	for _, record := range req.Records {
		if record != nil {
			record.OwnerID = ownerID
		}
	}

	if err := h.services.LedgerService.UploadRecords(ctx, req.Records...); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Str("func", "*Handler.uploadRecords").Msg(app.MsgInvalidDataProvided)
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		default:
			log.Err(err).Str("func", "*Handler.uploadRecords").Msg("error uploading ledger records")
			http.Error(w, app.MsgInternalServerError, statusFromError(err))
			return
		}
	}

	log.Info().Str("func", "*Handler.uploadRecords").Int64("owner_id", ownerID).Int("records", len(req.Records)).Msg("sealed records stored")

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteRecord").Msg(app.MsgNoOwnerIDProvided)
		http.Error(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	recordUID := chi.URLParam(r, "recordUID")
	if recordUID == "" {
		log.Error().Str("func", "*Handler.deleteRecord").Msg("no record UID provided")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if err := h.services.LedgerService.DeleteRecord(ctx, ownerID, recordUID); err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			log.Debug().Str("func", "*Handler.deleteRecord").Str("record_uid", recordUID).Msg(app.MsgRecordNotFound)
			http.Error(w, app.MsgRecordNotFound, http.StatusNotFound)
			return
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Str("func", "*Handler.deleteRecord").Msg(app.MsgInvalidDataProvided)
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		default:
			log.Err(err).Str("func", "*Handler.deleteRecord").Msg("error deleting ledger record")
			http.Error(w, app.MsgInternalServerError, statusFromError(err))
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
