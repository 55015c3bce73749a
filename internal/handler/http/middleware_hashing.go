package http

import (
	"bytes"
	"crypto/hmac"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/fin-keeper/internal/app"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
)

// recordsHashing verifies the transport integrity hash of a record upload.
//
// The client computes an HMAC-SHA256 over the serialized records list and
// sends it in the "hash" field of [models.UploadRecordsRequest]. The
// middleware recomputes the hash over the decoded records with the shared
// key and rejects the request with 400 when the values differ. The request
// body is restored afterwards so the upload handler can decode it again.
func (h *Handler) recordsHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.recordsHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req models.UploadRecordsRequest
		if err = json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
			log.Err(err).Str("func", "*Handler.recordsHashing").Msg("failed to decode JSON")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}

		payloadBytes, err := json.Marshal(req.Records)
		if err != nil {
			log.Err(err).Str("func", "*Handler.recordsHashing").Msg("failed to marshal records")
			http.Error(w, app.MsgInternalServerError, http.StatusInternalServerError)
			return
		}

		hashedBody := hex.EncodeToString(utils.Hash(payloadBytes))
		if !hmac.Equal([]byte(hashedBody), []byte(req.Hash)) {
			log.Error().Str("func", "*Handler.recordsHashing").
				Str("hash from request", req.Hash).
				Str("hashed body", hashedBody).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.recordsHashing").Msg("upload integrity hash verified")

		next.ServeHTTP(w, r)
	})
}
