package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcleod/keyagree/api"
	"github.com/jmcleod/keyagree/codec"
	"github.com/jmcleod/keyagree/crypto"
	"github.com/jmcleod/keyagree/key"
	"github.com/jmcleod/keyagree/storage/memory"
)

const controller = "did:example:1234"

func setupServer(t *testing.T, opts ...api.Option) *httptest.Server {
	t.Helper()
	opts = append([]api.Option{api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	a := api.New(memory.NewRepository(), nil, opts...)
	r := chi.NewRouter()
	r.Use(api.SecurityHeaders)
	r.Mount("/api/v1", a.Router())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequestWithContext(t.Context(), method, target, &reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// keysURL returns the /keys URL for path scoped to controller.
func keysURL(baseURL, path, controller string) string {
	return baseURL + "/api/v1/keys" + path + "?" + url.Values{"controller": {controller}}.Encode()
}

func generate(t *testing.T, baseURL string, req api.GenerateKeyRequest) api.KeyResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/keys", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[api.KeyResponse](t, resp)
}

func TestGenerateKey(t *testing.T) {
	srv := setupServer(t)

	got := generate(t, srv.URL, api.GenerateKeyRequest{Controller: controller})
	assert.Equal(t, controller+"#"+got.Fingerprint, got.Key.ID)
	assert.Equal(t, key.X25519KeyAgreementKey2019, got.Key.Type)
	assert.Empty(t, got.Key.PrivateKeyBase58, "private key must not be returned unless requested")

	withPriv := generate(t, srv.URL, api.GenerateKeyRequest{Controller: controller, IncludePrivateKey: true})
	assert.NotEmpty(t, withPriv.Key.PrivateKeyBase58)

	kp, err := key.FromRecord(withPriv.Key)
	require.NoError(t, err)
	assert.Equal(t, withPriv.Fingerprint, kp.Fingerprint())
}

func TestGenerateKey_Invalid(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"MissingController", api.GenerateKeyRequest{}, http.StatusBadRequest},
		{"UnknownSuite", api.GenerateKeyRequest{Controller: controller, Type: "Ed25519VerificationKey2018"}, http.StatusBadRequest},
		{"UnknownField", map[string]string{"controller": controller, "color": "blue"}, http.StatusBadRequest},
		{"EmptyBody", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/keys", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			errResp := decode[api.ErrorResponse](t, resp)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestGetKey(t *testing.T) {
	srv := setupServer(t)
	created := generate(t, srv.URL, api.GenerateKeyRequest{Controller: controller})

	t.Run("Resolve", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/keys/"+created.Fingerprint, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[api.KeyResponse](t, resp)
		assert.Equal(t, created.Key.PublicKeyBase58, got.Key.PublicKeyBase58)
		assert.Empty(t, got.Key.Controller)
	})

	t.Run("Stored", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/keys/"+created.Fingerprint+"?controller="+controller, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[api.KeyResponse](t, resp)
		assert.Equal(t, created.Key, got.Key)
	})

	t.Run("StoredUnderOtherController", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/keys/"+created.Fingerprint+"?controller=did:example:other", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadFingerprint", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/keys/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestConvertKey(t *testing.T) {
	srv := setupServer(t)

	req := api.ConvertKeyRequest{
		Controller:        controller,
		PublicKeyBase58:   "HLi1h9SzENZyEv7ifPNtu8xyJNzCFFeaC6X9rsZKFgv3",
		PrivateKeyBase58:  "4F71TAGqQYe7KE9p4HUzoVV9arQwKP4gPtvi89EPNGuwA1qLE4RRxitA2rEcdEszERj3pN1DWKARBZQ2BACLbW1V",
		IncludePrivateKey: true,
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/keys/convert", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[api.KeyResponse](t, resp)
	assert.Equal(t, "9K6xjwBdjKC4W3r41ZP5WUxp8XXm8gT9GvR1G5Eocs1Z", got.Key.PublicKeyBase58)
	assert.Equal(t, "H9ruaVs9LnRUwxNMLTjDkEbWW1P3bcBuiu7GxoBbEpdV", got.Key.PrivateKeyBase58)

	// Not stored unless asked.
	resp = doJSON(t, http.MethodGet, keysURL(srv.URL, "", controller), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[api.ListKeysResponse](t, resp).Keys)

	req.Store = true
	req.IncludePrivateKey = false
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/keys/convert", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	stored := decode[api.KeyResponse](t, resp)
	assert.Empty(t, stored.Key.PrivateKeyBase58)

	resp = doJSON(t, http.MethodGet, keysURL(srv.URL, "", controller), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[api.ListKeysResponse](t, resp)
	require.Len(t, list.Keys, 1)
	assert.Equal(t, stored.Fingerprint, list.Keys[0].Fingerprint)
}

func TestConvertKey_Invalid(t *testing.T) {
	srv := setupServer(t)

	x25519Header := "z" + codec.EncodeBase58(append([]byte{0xec, 0x01}, make([]byte, 32)...))
	tests := []struct {
		name string
		req  api.ConvertKeyRequest
	}{
		{"NoKey", api.ConvertKeyRequest{}},
		{"BothEncodings", api.ConvertKeyRequest{PublicKeyBase58: "abc", PublicKeyMultibase: "zabc"}},
		{"WrongHeader", api.ConvertKeyRequest{PublicKeyMultibase: x25519Header}},
		{"BadBase58", api.ConvertKeyRequest{PublicKeyBase58: "0OIl"}},
		{"StoreWithoutController", api.ConvertKeyRequest{PublicKeyBase58: "HLi1h9SzENZyEv7ifPNtu8xyJNzCFFeaC6X9rsZKFgv3", Store: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/keys/convert", tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestVerifyFingerprint(t *testing.T) {
	var mu sync.Mutex
	var alerts []api.AlertEvent
	srv := setupServer(t, api.WithAlertFunc(func(e api.AlertEvent) {
		mu.Lock()
		alerts = append(alerts, e)
		mu.Unlock()
	}))

	pub := "8y8Q4AUVpmbm2VrXzqYSXrYcAETrFgX4eGPJoKrMWXNv"
	fp := "z6LSjeJZaUHMvEKW7tEJXV4PrSm61NzxxHhDXF6zHnVtDu9g"

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/fingerprints/verify", api.VerifyFingerprintRequest{PublicKeyBase58: pub, Fingerprint: fp})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[api.VerifyFingerprintResponse](t, resp)
	assert.True(t, got.Valid)
	assert.Empty(t, got.Error)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/fingerprints/verify", api.VerifyFingerprintRequest{PublicKeyBase58: pub, Fingerprint: fp[1:]})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = decode[api.VerifyFingerprintResponse](t, resp)
	assert.False(t, got.Valid)
	assert.Contains(t, got.Error, "multibase")

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/fingerprints/verify", api.VerifyFingerprintRequest{PublicKeyBase58: "short", Fingerprint: fp})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	mu.Lock()
	assert.Empty(t, alerts, "one mismatch is below the alert threshold")
	mu.Unlock()
}

func TestDeriveSecret(t *testing.T) {
	srv := setupServer(t)

	alice := generate(t, srv.URL, api.GenerateKeyRequest{Controller: "did:example:alice"})
	bob := generate(t, srv.URL, api.GenerateKeyRequest{Controller: "did:example:bob"})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/secrets", api.DeriveSecretRequest{
		Controller:        "did:example:alice",
		Fingerprint:       alice.Fingerprint,
		RemoteFingerprint: bob.Fingerprint,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fromAlice := decode[api.DeriveSecretResponse](t, resp)
	require.NotEmpty(t, fromAlice.Secret)
	assert.Empty(t, fromAlice.Key)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/secrets", api.DeriveSecretRequest{
		Controller:            "did:example:bob",
		Fingerprint:           bob.Fingerprint,
		RemotePublicKeyBase58: alice.Key.PublicKeyBase58,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fromBob := decode[api.DeriveSecretResponse](t, resp)
	assert.Equal(t, fromAlice.Secret, fromBob.Secret)

	t.Run("KDF", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/secrets", api.DeriveSecretRequest{
			Controller:        "did:example:alice",
			Fingerprint:       alice.Fingerprint,
			RemoteFingerprint: bob.Fingerprint,
			KDF:               &api.KDFParams{Info: "test", Length: 16},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[api.DeriveSecretResponse](t, resp)
		assert.Empty(t, got.Secret, "raw secret must not be returned with a KDF")

		secret, err := codec.DecodeBase58(fromAlice.Secret)
		require.NoError(t, err)
		want, err := crypto.DeriveKey(secret, crypto.WithInfo([]byte("test")), crypto.WithLength(16))
		require.NoError(t, err)
		assert.Equal(t, codec.EncodeBase58(want), got.Key)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			req  api.DeriveSecretRequest
			want int
		}{
			{"MissingLocal", api.DeriveSecretRequest{RemoteFingerprint: bob.Fingerprint}, http.StatusBadRequest},
			{"MissingRemote", api.DeriveSecretRequest{Controller: "did:example:alice", Fingerprint: alice.Fingerprint}, http.StatusBadRequest},
			{"UnknownLocal", api.DeriveSecretRequest{Controller: "did:example:alice", Fingerprint: bob.Fingerprint, RemoteFingerprint: bob.Fingerprint}, http.StatusNotFound},
			{"BadRemoteFingerprint", api.DeriveSecretRequest{Controller: "did:example:alice", Fingerprint: alice.Fingerprint, RemoteFingerprint: "zzz"}, http.StatusBadRequest},
			{"BadKDFLength", api.DeriveSecretRequest{Controller: "did:example:alice", Fingerprint: alice.Fingerprint, RemoteFingerprint: bob.Fingerprint, KDF: &api.KDFParams{Length: -1}}, http.StatusBadRequest},
			{"LowOrderRemote", api.DeriveSecretRequest{Controller: "did:example:alice", Fingerprint: alice.Fingerprint, RemotePublicKeyBase58: codec.EncodeBase58(make([]byte, 32))}, http.StatusBadRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/secrets", tt.req)
				assert.Equal(t, tt.want, resp.StatusCode)
			})
		}
	})
}

func TestListAndDeleteKeys(t *testing.T) {
	srv := setupServer(t)

	var fps []string
	for range 3 {
		fps = append(fps, generate(t, srv.URL, api.GenerateKeyRequest{Controller: controller}).Fingerprint)
	}

	resp := doJSON(t, http.MethodGet, keysURL(srv.URL, "", controller)+"&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[api.ListKeysResponse](t, resp)
	assert.Len(t, page.Keys, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.True(t, page.HasMore)
	for _, k := range page.Keys {
		assert.Empty(t, k.Key.PrivateKeyBase58)
	}

	resp = doJSON(t, http.MethodDelete, keysURL(srv.URL, "/"+fps[0], controller), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, keysURL(srv.URL, "/"+fps[0], controller), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, keysURL(srv.URL, "", controller), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[api.ListKeysResponse](t, resp).TotalCount)

	t.Run("MissingController", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/keys", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/keys/"+fps[1], nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListAndDeleteKeys_PercentInController(t *testing.T) {
	srv := setupServer(t)

	for _, c := range []string{"did:web:example.com%3A8080", "did:example:a%b"} {
		t.Run(c, func(t *testing.T) {
			created := generate(t, srv.URL, api.GenerateKeyRequest{Controller: c})
			assert.Equal(t, c+"#"+created.Fingerprint, created.Key.ID)

			resp := doJSON(t, http.MethodGet, keysURL(srv.URL, "", c), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			list := decode[api.ListKeysResponse](t, resp)
			require.Len(t, list.Keys, 1)
			assert.Equal(t, created.Fingerprint, list.Keys[0].Fingerprint)

			resp = doJSON(t, http.MethodGet, keysURL(srv.URL, "/"+created.Fingerprint, c), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, c, decode[api.KeyResponse](t, resp).Key.Controller)

			resp = doJSON(t, http.MethodDelete, keysURL(srv.URL, "/"+created.Fingerprint, c), nil)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp = doJSON(t, http.MethodGet, keysURL(srv.URL, "", c), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Zero(t, decode[api.ListKeysResponse](t, resp).TotalCount)
		})
	}
}

func TestSuitesAndDocs(t *testing.T) {
	srv := setupServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/suites", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"X25519KeyAgreementKey2019"}, decode[api.ListSuitesResponse](t, resp).Suites)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "openapi:"))

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/docs", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
