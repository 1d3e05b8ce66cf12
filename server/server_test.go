package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hippo-protocol/hippo-protocol/sdk"
)

func testServer(t *testing.T) *Server {
	srv, err := NewServer(Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv
}

// sends a request through the full router, returning status code and decoding the body into out
func call(t *testing.T, srv *Server, method, path string, body any, out any) int {
	var reader io.Reader
	if s, ok := body.(string); ok {
		reader = strings.NewReader(s)
	} else if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out), recorder.Body.String())
	}
	return recorder.Code
}

func TestHealth(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var health HealthStatus
	assert.Equal(200, call(t, srv, http.MethodGet, "/_health", nil, &health))
	assert.Equal("ok", health.Status)
}

func TestKeyAndDIDFlow(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var kp sdk.KeyPair
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/keypair", nil, &kp))
	assert.Len(kp.Pubkey, 66)
	assert.Len(kp.Privkey, 64)

	var id sdk.DID
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/did/encode", map[string]string{"pubkey": kp.Pubkey}, &id))
	assert.Equal("did:hp:"+kp.Pubkey, id.ID)

	var back keyRequest
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/did/decode", id, &back))
	assert.Equal(kp.Pubkey, back.Pubkey)

	var doc map[string]any
	assert.Equal(200, call(t, srv, http.MethodGet, "/v1/did/resolve?did="+id.ID, nil, &doc))
	assert.Equal(id.ID, doc["id"])

	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/did/decode", map[string]string{"id": "did:web:x"}, &gerr))
	assert.Equal("MalformedIdentifier", gerr.Error)
}

func TestEncryptFlow(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var kp sdk.KeyPair
	require.Equal(t, 200, call(t, srv, http.MethodPost, "/v1/keypair", nil, &kp))

	var env sdk.EncryptedData
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/encrypt", `{"data":"68656c6c6f","pubkey":"`+kp.Pubkey+`","encoding":"HEX"}`, &env))
	assert.Equal(kp.Pubkey, env.PubkeyTo)

	var out dataResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/decrypt", decryptRequest{Encrypted: &env, Privkey: kp.Privkey, Encoding: sdk.UTF8}, &out))
	assert.Equal("hello", out.Data)

	// numeric encoding form
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/decrypt", `{"encrypted":{"pubkey_from":"`+env.PubkeyFrom+`","pubkey_to":"`+env.PubkeyTo+`","data":"`+env.Ciphertext+`","nonce":"`+env.Nonce+`"},"privkey":"`+kp.Privkey+`","encoding":1}`, &out))
	assert.Equal("68656c6c6f", out.Data)

	tampered := env
	tampered.Nonce = strings.Repeat("0", 24)
	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/decrypt", decryptRequest{Encrypted: &tampered, Privkey: kp.Privkey}, &gerr))
	assert.Equal("AuthenticationFailure", gerr.Error)

	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/encrypt", `{"data":"x","pubkey":"`+kp.Pubkey+`","encoding":"EBCDIC"}`, &gerr))
	assert.Equal("InvalidEncoding", gerr.Error)

	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/encrypt", `{"data":"x","pubkey":"02"}`, &gerr))
	assert.Equal("MalformedKey", gerr.Error)
}

func TestAESFlow(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	key := strings.Repeat("11", 32)
	var env sdk.AesEncryptedData
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/aes/encrypt", aesEncryptRequest{Data: "aGVsbG8=", Key: key, Encoding: sdk.BASE64}, &env))

	var out dataResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/aes/decrypt", aesDecryptRequest{Encrypted: &env, Key: key, Encoding: sdk.UTF8}, &out))
	assert.Equal("hello", out.Data)

	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/aes/encrypt", aesEncryptRequest{Data: "x", Key: "1111"}, &gerr))
	assert.Equal("InvalidKeyLength", gerr.Error)
}

func TestSignVerifyFlow(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var kp sdk.KeyPair
	require.Equal(t, 200, call(t, srv, http.MethodPost, "/v1/keypair", nil, &kp))

	var sig signResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/sign", signRequest{Data: "data", Privkey: kp.Privkey}, &sig))

	var valid validResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/verify", verifyRequest{Data: "data", Signature: sig.Signature, Pubkey: kp.Pubkey}, &valid))
	assert.True(valid.Valid)
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/verify", verifyRequest{Data: "Data", Signature: sig.Signature, Pubkey: kp.Pubkey}, &valid))
	assert.False(valid.Valid)

	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/verify", verifyRequest{Data: "data", Signature: "beef", Pubkey: kp.Pubkey}, &gerr))
	assert.Equal("MalformedInput", gerr.Error)
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/sign", signRequest{Data: "data", Privkey: "00"}, &gerr))
	assert.Equal("MalformedKey", gerr.Error)
}

func TestDigestAndECDH(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var digest digestResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/sha256", map[string]string{"data": "Hello, world!"}, &digest))
	assert.Equal("315f5bdb76d078c43b8ac0064e4a0164612b1fce77c869345bfc94c75894edd3", digest.Digest)

	var secret secretResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/ecdh", ecdhRequest{
		Privkey: "0000000000000000000000000000000000000000000000000000000000000001",
		Pubkey:  "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
	}, &secret))
	assert.Equal("b1c9938f01121e159887ac2c8d393a22e4476ff8212de13fe1939de2a236f0a7", secret.Secret)
}

func TestPedersenFlow(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var c sdk.Commitment
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/pedersen/commit", commitRequest{Value: 100, Tag: "hippo"}, &c))

	var valid validResponse
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/pedersen/reveal", revealRequest{Commitment: &c, Value: 100, Tag: "hippo"}, &valid))
	assert.True(valid.Valid)
	assert.Equal(200, call(t, srv, http.MethodPost, "/v1/pedersen/reveal", revealRequest{Commitment: &c, Value: 100, Tag: "wrong hippo"}, &valid))
	assert.False(valid.Valid)

	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/pedersen/reveal", revealRequest{Value: 100, Tag: "hippo"}, &gerr))
	assert.Equal("MalformedInput", gerr.Error)
}

func TestMalformedBodies(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	var gerr GenericError
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/sign", "{", &gerr))
	assert.Equal("MalformedInput", gerr.Error)
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/sign", `{"unknown":1}`, &gerr))
	assert.Equal("MalformedInput", gerr.Error)
	assert.Equal(400, call(t, srv, http.MethodPost, "/v1/pedersen/commit", `{"value":-1,"tag":"x"}`, &gerr))
	assert.Equal("MalformedInput", gerr.Error)

	assert.Equal(404, call(t, srv, http.MethodGet, "/v1/nope", nil, &gerr))
	assert.Equal(405, call(t, srv, http.MethodGet, "/v1/sign", nil, &gerr))
}
