package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/pkg/env"
	"github.com/hippo-protocol/hippo-protocol/sdk"
)

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		errorMessage = http.StatusText(code)
	}
	if code >= 500 {
		srv.logger.Warn("server error", "err", err)
	}
	if c.Response().Committed {
		return
	}
	_ = c.JSON(code, GenericError{Error: http.StatusText(code), Message: errorMessage})
}

// Reports a toolkit error with its kind. Every kind except Internal is the caller's fault.
func (srv *Server) fail(c echo.Context, err error) error {
	kind := sdk.KindOf(err)
	code := http.StatusBadRequest
	if kind == sdk.KindInternal {
		code = http.StatusInternalServerError
		srv.logger.Error("operation failed", "path", c.Path(), "err", err)
	}
	return c.JSON(code, GenericError{Error: string(kind), Message: err.Error()})
}

// Decodes the JSON request body. Undecodable bodies are MalformedInput, unless a field reported a more specific kind.
func (srv *Server) bind(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return nil
	}
	if sdk.KindOf(err) != sdk.KindInternal {
		return err
	}
	return fmt.Errorf("%w: request body: %v", crypto.ErrMalformedInput, err)
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{Status: "ok", Version: env.Version})
}

func (srv *Server) HandleCreateKeyPair(c echo.Context) error {
	kp, err := sdk.CreateKeyPair()
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, kp)
}

type keyRequest struct {
	Pubkey string `json:"pubkey"`
}

func (srv *Server) HandleKeyToDID(c echo.Context) error {
	var req keyRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, sdk.KeyToDID(req.Pubkey))
}

func (srv *Server) HandleDIDToKey(c echo.Context) error {
	var req sdk.DID
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	pub, err := sdk.DIDToKey(req)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, keyRequest{Pubkey: pub})
}

func (srv *Server) HandleResolveDID(c echo.Context) error {
	doc, err := srv.resolver.GetDocument(c.Request().Context(), c.QueryParam("did"))
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

type encryptRequest struct {
	Data     string           `json:"data"`
	Pubkey   string           `json:"pubkey"`
	Encoding sdk.EncodingType `json:"encoding"`
}

func (srv *Server) HandleEncrypt(c echo.Context) error {
	var req encryptRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	out, err := sdk.Encrypt(req.Data, req.Pubkey, req.Encoding)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type decryptRequest struct {
	Encrypted *sdk.EncryptedData `json:"encrypted"`
	Privkey   string             `json:"privkey"`
	Encoding  sdk.EncodingType   `json:"encoding"`
}

type dataResponse struct {
	Data string `json:"data"`
}

func (srv *Server) HandleDecrypt(c echo.Context) error {
	var req decryptRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	out, err := sdk.Decrypt(req.Encrypted, req.Privkey, req.Encoding)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

type aesEncryptRequest struct {
	Data     string           `json:"data"`
	Key      string           `json:"key"`
	Encoding sdk.EncodingType `json:"encoding"`
}

func (srv *Server) HandleEncryptAES(c echo.Context) error {
	var req aesEncryptRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	out, err := sdk.EncryptAES(req.Data, req.Key, req.Encoding)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type aesDecryptRequest struct {
	Encrypted *sdk.AesEncryptedData `json:"encrypted"`
	Key       string                `json:"key"`
	Encoding  sdk.EncodingType      `json:"encoding"`
}

func (srv *Server) HandleDecryptAES(c echo.Context) error {
	var req aesDecryptRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	out, err := sdk.DecryptAES(req.Encrypted, req.Key, req.Encoding)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

type signRequest struct {
	Data    string `json:"data"`
	Privkey string `json:"privkey"`
}

type signResponse struct {
	Signature string `json:"signature"`
}

func (srv *Server) HandleSign(c echo.Context) error {
	var req signRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	sig, err := sdk.Sign(req.Data, req.Privkey)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, signResponse{Signature: sig})
}

type verifyRequest struct {
	Data      string `json:"data"`
	Signature string `json:"signature"`
	Pubkey    string `json:"pubkey"`
}

type validResponse struct {
	Valid bool `json:"valid"`
}

func (srv *Server) HandleVerify(c echo.Context) error {
	var req verifyRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	ok, err := sdk.Verify(req.Data, req.Signature, req.Pubkey)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, validResponse{Valid: ok})
}

type digestResponse struct {
	Digest string `json:"digest"`
}

func (srv *Server) HandleSha256(c echo.Context) error {
	var req dataResponse
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, digestResponse{Digest: sdk.Sha256(req.Data)})
}

type ecdhRequest struct {
	Privkey string `json:"privkey"`
	Pubkey  string `json:"pubkey"`
}

type secretResponse struct {
	Secret string `json:"secret"`
}

func (srv *Server) HandleECDH(c echo.Context) error {
	var req ecdhRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	secret, err := sdk.ECDH(req.Privkey, req.Pubkey)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, secretResponse{Secret: secret})
}

type commitRequest struct {
	Value uint64 `json:"value"`
	Tag   string `json:"tag"`
}

func (srv *Server) HandlePedersenCommit(c echo.Context) error {
	var req commitRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	out, err := sdk.PedersenCommit(req.Value, req.Tag)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type revealRequest struct {
	Commitment *sdk.Commitment `json:"commitment"`
	Value      uint64          `json:"value"`
	Tag        string          `json:"tag"`
}

func (srv *Server) HandlePedersenReveal(c echo.Context) error {
	var req revealRequest
	if err := srv.bind(c, &req); err != nil {
		return srv.fail(c, err)
	}
	ok, err := sdk.PedersenReveal(req.Commitment, req.Value, req.Tag)
	if err != nil {
		return srv.fail(c, err)
	}
	return c.JSON(http.StatusOK, validResponse{Valid: ok})
}
