package api

import "github.com/jmcleod/keyagree/key"

// GenerateKeyRequest is the JSON body for POST /keys.
type GenerateKeyRequest struct {
	Type              string `json:"type,omitempty"`
	Controller        string `json:"controller"`
	ID                string `json:"id,omitempty"`
	Revoked           string `json:"revoked,omitempty"`
	IncludePrivateKey bool   `json:"include_private_key,omitempty"`
}

// ConvertKeyRequest is the JSON body for POST /keys/convert. Exactly one
// of the base58 or multibase public key fields must be set.
type ConvertKeyRequest struct {
	Controller          string `json:"controller,omitempty"`
	PublicKeyBase58     string `json:"publicKeyBase58,omitempty"`
	PrivateKeyBase58    string `json:"privateKeyBase58,omitempty"`
	PublicKeyMultibase  string `json:"publicKeyMultibase,omitempty"`
	PrivateKeyMultibase string `json:"privateKeyMultibase,omitempty"`
	Store               bool   `json:"store,omitempty"`
	IncludePrivateKey   bool   `json:"include_private_key,omitempty"`
}

// KeyResponse describes a single key record.
type KeyResponse struct {
	Fingerprint string     `json:"fingerprint"`
	Key         key.Record `json:"key"`
}

// ListKeysResponse is returned from GET /keys.
type ListKeysResponse struct {
	Keys []KeyResponse `json:"keys"`
	PaginationMeta
}

// ListSuitesResponse is returned from GET /suites.
type ListSuitesResponse struct {
	Suites []string `json:"suites"`
}

// VerifyFingerprintRequest is the JSON body for POST /fingerprints/verify.
type VerifyFingerprintRequest struct {
	PublicKeyBase58 string `json:"publicKeyBase58"`
	Fingerprint     string `json:"fingerprint"`
}

// VerifyFingerprintResponse is returned from POST /fingerprints/verify.
type VerifyFingerprintResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// KDFParams asks POST /secrets to return an HKDF-derived key instead of
// the raw shared secret.
type KDFParams struct {
	Salt   string `json:"salt,omitempty"`
	Info   string `json:"info,omitempty"`
	Length int    `json:"length,omitempty"`
}

// DeriveSecretRequest is the JSON body for POST /secrets. The local key is
// a stored key with a private key; the remote key is given by fingerprint
// or raw base58 public key.
type DeriveSecretRequest struct {
	Controller            string     `json:"controller"`
	Fingerprint           string     `json:"fingerprint"`
	RemoteFingerprint     string     `json:"remote_fingerprint,omitempty"`
	RemotePublicKeyBase58 string     `json:"remote_public_key_base58,omitempty"`
	KDF                   *KDFParams `json:"kdf,omitempty"`
}

// DeriveSecretResponse is returned from POST /secrets. Secret holds the raw
// shared secret when no KDF was requested; Key holds the derived key otherwise.
type DeriveSecretResponse struct {
	Secret string `json:"secret,omitempty"`
	Key    string `json:"key,omitempty"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}
