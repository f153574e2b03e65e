package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmcleod/keyagree/convert"
	"github.com/jmcleod/keyagree/key"
)

// ListSuites handles GET /suites.
func (a *API) ListSuites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListSuitesResponse{Suites: a.suites.Types()})
}

// GenerateKey handles POST /keys. The new key pair, including its private
// key, is stored under its controller.
func (a *API) GenerateKey(w http.ResponseWriter, r *http.Request) {
	var req GenerateKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Controller == "" {
		writeError(w, http.StatusBadRequest, "controller is required")
		return
	}
	typ := req.Type
	if typ == "" {
		typ = key.X25519KeyAgreementKey2019.String()
	}

	s, err := a.suites.Lookup(typ)
	if err != nil {
		mapError(w, err)
		return
	}

	opts := []key.Option{key.WithController(req.Controller), key.WithRevoked(req.Revoked)}
	if req.ID != "" {
		opts = append(opts, key.WithID(req.ID))
	}
	kp, err := s.Generate(opts...)
	if err != nil {
		mapError(w, err)
		return
	}

	stored, err := a.storeKey(kp)
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logKey(AuditKeyGenerated, r, stored.Controller, kp.Fingerprint(), slog.String("type", typ))
	writeJSON(w, http.StatusCreated, a.keyResponse(r, kp.Fingerprint(), stored, req.IncludePrivateKey))
}

// ConvertKey handles POST /keys/convert.
func (a *API) ConvertKey(w http.ResponseWriter, r *http.Request) {
	var req ConvertKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		kp  *key.KeyPair
		err error
	)
	switch {
	case req.PublicKeyBase58 != "" && req.PublicKeyMultibase != "":
		writeError(w, http.StatusBadRequest, "only one of publicKeyBase58 and publicKeyMultibase may be set")
		return
	case req.PublicKeyMultibase != "":
		kp, err = key.FromEd25519Multibase(convert.Ed25519MultibaseKeyPair{
			Controller:          req.Controller,
			PublicKeyMultibase:  req.PublicKeyMultibase,
			PrivateKeyMultibase: req.PrivateKeyMultibase,
		})
	case req.PublicKeyBase58 != "":
		kp, err = key.FromEd25519(convert.Ed25519KeyPair{
			Controller:       req.Controller,
			PublicKeyBase58:  req.PublicKeyBase58,
			PrivateKeyBase58: req.PrivateKeyBase58,
		})
	default:
		writeError(w, http.StatusBadRequest, "publicKeyBase58 or publicKeyMultibase is required")
		return
	}
	if err != nil {
		mapError(w, err)
		return
	}

	status := http.StatusOK
	var rec key.Record
	if req.Store {
		rec, err = a.storeKey(kp)
		status = http.StatusCreated
	} else {
		rec, err = kp.Export(key.ExportOptions{PublicKey: true, PrivateKey: true})
	}
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logKey(AuditKeyConverted, r, kp.Controller(), kp.Fingerprint(), slog.Bool("stored", req.Store))
	writeJSON(w, status, a.keyResponse(r, kp.Fingerprint(), rec, req.IncludePrivateKey))
}

// GetKey handles GET /keys/{fingerprint}. With a controller query
// parameter the stored record is returned; without one the fingerprint is
// resolved to a bare public key.
func (a *API) GetKey(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")

	kp, err := key.FromFingerprint(fingerprint)
	if err != nil {
		mapError(w, err)
		return
	}

	controller := r.URL.Query().Get("controller")
	if controller == "" {
		rec, err := kp.Export(key.ExportOptions{PublicKey: true})
		if err != nil {
			mapError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, KeyResponse{Fingerprint: fingerprint, Key: rec})
		return
	}

	rec, err := a.repo.Get(controller, kp.Fingerprint())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.keyResponse(r, fingerprint, rec, false))
}

// controllerParam reads the required controller query parameter. Controllers
// may contain percent-escapes of their own (did:web ports).
func controllerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	controller := r.URL.Query().Get("controller")
	if controller == "" {
		writeError(w, http.StatusBadRequest, "controller query parameter is required")
		return "", false
	}
	return controller, true
}

// ListKeys handles GET /keys?controller=.
func (a *API) ListKeys(w http.ResponseWriter, r *http.Request) {
	controller, ok := controllerParam(w, r)
	if !ok {
		return
	}

	records, err := a.repo.List(controller)
	if err != nil {
		mapError(w, err)
		return
	}

	keys := make([]KeyResponse, 0, len(records))
	for _, rec := range records {
		kp, err := key.FromRecord(rec)
		if err != nil {
			mapError(w, err)
			return
		}
		keys = append(keys, a.keyResponse(r, kp.Fingerprint(), rec, false))
	}

	page, meta := paginate(r, keys)
	writeJSON(w, http.StatusOK, ListKeysResponse{Keys: page, PaginationMeta: meta})
}

// DeleteKey handles DELETE /keys/{fingerprint}?controller=.
func (a *API) DeleteKey(w http.ResponseWriter, r *http.Request) {
	controller, ok := controllerParam(w, r)
	if !ok {
		return
	}
	fingerprint := chi.URLParam(r, "fingerprint")

	if err := a.repo.Delete(controller, fingerprint); err != nil {
		mapError(w, err)
		return
	}

	a.audit.logKey(AuditKeyDeleted, r, controller, fingerprint)
	w.WriteHeader(http.StatusNoContent)
}

// storeKey exports kp with its private key and stores it.
func (a *API) storeKey(kp *key.KeyPair) (key.Record, error) {
	rec, err := kp.Export(key.ExportOptions{PublicKey: true, PrivateKey: true})
	if err != nil {
		return key.Record{}, err
	}
	return a.repo.Put(rec)
}

// keyResponse strips the private key from rec unless the caller asked for
// it. Every private key that leaves the service is audited.
func (a *API) keyResponse(r *http.Request, fingerprint string, rec key.Record, includePrivate bool) KeyResponse {
	if !includePrivate {
		rec.PrivateKeyBase58 = ""
	} else if rec.PrivateKeyBase58 != "" {
		a.audit.logKey(AuditPrivateKeyExported, r, rec.Controller, fingerprint)
	}
	return KeyResponse{Fingerprint: fingerprint, Key: rec}
}
