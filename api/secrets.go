package api

import (
	"log/slog"
	"net/http"

	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/internal/util"
	"github.com/jmcleod/keyagree/key"
)

// VerifyFingerprint handles POST /fingerprints/verify. A mismatch is a
// successful request with Valid false.
func (a *API) VerifyFingerprint(w http.ResponseWriter, r *http.Request) {
	var req VerifyFingerprintRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pub, err := codec.DecodeKeyBase58(req.PublicKeyBase58)
	if err != nil {
		mapError(w, err)
		return
	}

	res := codec.VerifyFingerprint(pub, req.Fingerprint)
	resp := VerifyFingerprintResponse{Valid: res.Valid}
	if res.Err != nil {
		resp.Error = res.Err.Error()
		a.audit.log(AuditFingerprintMismatch, r, slog.String("fingerprint", req.Fingerprint))
	} else {
		a.audit.log(AuditFingerprintVerified, r, slog.String("fingerprint", req.Fingerprint))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeriveSecret handles POST /secrets. The local key must be stored with
// its private key.
func (a *API) DeriveSecret(w http.ResponseWriter, r *http.Request) {
	var req DeriveSecretRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Controller == "" || req.Fingerprint == "" {
		writeError(w, http.StatusBadRequest, "controller and fingerprint are required")
		return
	}

	remote, err := remoteKey(req)
	if err != nil {
		mapError(w, err)
		return
	}

	rec, err := a.repo.Get(req.Controller, req.Fingerprint)
	if err != nil {
		mapError(w, err)
		return
	}
	local, err := key.FromRecord(rec)
	if err != nil {
		mapError(w, err)
		return
	}

	s, err := a.suites.Lookup(rec.Type.String())
	if err != nil {
		mapError(w, err)
		return
	}
	secret, err := s.DeriveSecret(local, remote)
	if err != nil {
		mapError(w, err)
		return
	}
	defer util.WipeBytes(secret)

	var resp DeriveSecretResponse
	if req.KDF == nil {
		resp.Secret = codec.EncodeBase58(secret)
	} else {
		opts, err := kdfOptions(req.KDF)
		if err != nil {
			mapError(w, err)
			return
		}
		k, err := crypto.DeriveKey(secret, opts...)
		if err != nil {
			mapError(w, err)
			return
		}
		resp.Key = codec.EncodeBase58(k)
		util.WipeBytes(k)
	}

	a.audit.logKey(AuditSecretDerived, r, req.Controller, req.Fingerprint,
		slog.String("remote_fingerprint", remote.Fingerprint()),
		slog.Bool("kdf", req.KDF != nil))
	writeJSON(w, http.StatusOK, resp)
}

func remoteKey(req DeriveSecretRequest) (*key.KeyPair, error) {
	switch {
	case req.RemoteFingerprint != "":
		return key.FromFingerprint(req.RemoteFingerprint)
	case req.RemotePublicKeyBase58 != "":
		pub, err := codec.DecodeKeyBase58(req.RemotePublicKeyBase58)
		if err != nil {
			return nil, err
		}
		return key.New(key.WithPublicKey(pub))
	default:
		return nil, key.ErrMissingPublicKey
	}
}

func kdfOptions(p *KDFParams) ([]crypto.DeriveKeyOption, error) {
	var opts []crypto.DeriveKeyOption
	if p.Salt != "" {
		salt, err := codec.DecodeBase58(p.Salt)
		if err != nil {
			return nil, err
		}
		opts = append(opts, crypto.WithSalt(salt))
	}
	if p.Info != "" {
		opts = append(opts, crypto.WithInfo([]byte(p.Info)))
	}
	if p.Length != 0 {
		opts = append(opts, crypto.WithLength(p.Length))
	}
	return opts, nil
}
