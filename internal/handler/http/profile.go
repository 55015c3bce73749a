package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/fin-keeper/internal/app"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getProfile").Msg(app.MsgNoOwnerIDProvided)
		http.Error(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	profile, err := h.services.ProfileService.GetProfile(ctx, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProfileNotFound):
			// Not an error state: a fresh account simply has no profile yet.
			log.Debug().Str("func", "*Handler.getProfile").Int64("owner_id", ownerID).Msg("profile is not enrolled")
			http.Error(w, app.MsgProfileNotFound, http.StatusNotFound)
			return
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Str("func", "*Handler.getProfile").Msg(app.MsgInvalidDataProvided)
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		default:
			log.Err(err).Str("func", "*Handler.getProfile").Msg("error getting encryption profile")
			http.Error(w, app.MsgInternalServerError, statusFromError(err))
			return
		}
	}

	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) putProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.putProfile").Msg(app.MsgNoOwnerIDProvided)
		http.Error(w, app.MsgNoOwnerIDProvided, http.StatusBadRequest)
		return
	}

	var profile models.EncryptionProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Err(err).Str("func", "*Handler.putProfile").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	// The owner comes from the bearer token, never from the request body.
	profile.OwnerID = ownerID

	saved, err := h.services.ProfileService.SaveProfile(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrKeyVersionConflict):
			log.Warn().Err(err).Str("func", "*Handler.putProfile").Int64("owner_id", ownerID).Msg(app.MsgStaleKeyVersion)
			http.Error(w, app.MsgStaleKeyVersion, http.StatusConflict)
			return
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Str("func", "*Handler.putProfile").Msg(app.MsgInvalidDataProvided)
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		default:
			log.Err(err).Str("func", "*Handler.putProfile").Msg("error saving encryption profile")
			http.Error(w, app.MsgInternalServerError, statusFromError(err))
			return
		}
	}

	log.Info().Str("func", "*Handler.putProfile").Int64("owner_id", ownerID).Int64("key_version", saved.KeyVersion).Msg("encryption profile stored")

	utils.WriteJSON(w, saved, http.StatusOK)
}
