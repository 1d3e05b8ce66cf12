package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Representation of a JSON Web Key (JWK), as relevant to the keys supported by this package.
//
// Expected to be marshalled/unmarshalled as JSON.
type JWK struct {
	KeyType string  `json:"kty"`
	Curve   string  `json:"crv"`
	X       string  `json:"x"` // base64url, no padding
	Y       string  `json:"y"` // base64url, no padding
	Use     string  `json:"use,omitempty"`
	KeyID   *string `json:"kid,omitempty"`
}

// Loads a [PublicKeyK256] from JWK (serialized as JSON bytes)
func ParsePublicJWKBytes(jwkBytes []byte) (*PublicKeyK256, error) {
	var jwk JWK
	if err := json.Unmarshal(jwkBytes, &jwk); err != nil {
		return nil, fmt.Errorf("%w: parsing JWK JSON: %w", ErrMalformedKey, err)
	}
	return ParsePublicJWK(jwk)
}

// Loads a [PublicKeyK256] from JWK struct.
func ParsePublicJWK(jwk JWK) (*PublicKeyK256, error) {

	if jwk.KeyType != "EC" {
		return nil, fmt.Errorf("%w: unsupported JWK key type: %s", ErrMalformedKey, jwk.KeyType)
	}
	if jwk.Curve != "secp256k1" {
		return nil, fmt.Errorf("%w: unsupported JWK cryptography: %s", ErrMalformedKey, jwk.Curve)
	}

	// base64url with no encoding
	xbuf, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWK base64 encoding: %w", ErrMalformedKey, err)
	}
	ybuf, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWK base64 encoding: %w", ErrMalformedKey, err)
	}
	if len(xbuf) != 32 || len(ybuf) != 32 {
		return nil, fmt.Errorf("%w: invalid K-256 coordinates", ErrMalformedKey)
	}

	var x, y secp256k1.FieldVal
	if overflow := x.SetByteSlice(xbuf); overflow {
		return nil, fmt.Errorf("%w: invalid K-256 coordinates", ErrMalformedKey)
	}
	if overflow := y.SetByteSlice(ybuf); overflow {
		return nil, fmt.Errorf("%w: invalid K-256 coordinates", ErrMalformedKey)
	}
	pubK := secp256k1.NewPublicKey(&x, &y)
	if !pubK.IsOnCurve() {
		return nil, fmt.Errorf("%w: invalid K-256/secp256k1 public key (not on curve)", ErrMalformedKey)
	}
	return &PublicKeyK256{pubK256: pubK}, nil
}

func (k *PublicKeyK256) JWK() (*JWK, error) {
	raw := k.UncompressedBytes()
	if len(raw) != UncompressedPublicKeyLength {
		return nil, fmt.Errorf("unexpected K-256 bytes size")
	}
	xbytes := raw[1:33]
	ybytes := raw[33:65]
	jwk := JWK{
		KeyType: "EC",
		Curve:   "secp256k1",
		X:       base64.RawURLEncoding.EncodeToString(xbytes),
		Y:       base64.RawURLEncoding.EncodeToString(ybytes),
	}
	return &jwk, nil
}
