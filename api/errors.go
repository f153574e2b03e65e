package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/convert"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/key"
	"github.com/jmcleod/keyagree/storage"
	"github.com/jmcleod/keyagree/suite"
)

const maxBodySize = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads a size-limited JSON body into v, writing the error
// response itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body required")
		default:
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, key.ErrMissingPrivateKey):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, suite.ErrUnknownSuite),
		errors.Is(err, key.ErrUnknownType),
		errors.Is(err, key.ErrMissingPublicKey),
		errors.Is(err, storage.ErrMissingController),
		errors.Is(err, codec.ErrUnsupportedFingerprintType),
		errors.Is(err, codec.ErrBase58Decode),
		errors.Is(err, codec.ErrInvalidKeyLength),
		errors.Is(err, convert.ErrInvalidEdPublicKey),
		errors.Is(err, convert.ErrInvalidEdPrivateKey),
		errors.Is(err, convert.ErrMultibaseHeaderMismatch),
		errors.Is(err, crypto.ErrInvalidKDFParams),
		errors.Is(err, crypto.ErrInvalidPeerKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
