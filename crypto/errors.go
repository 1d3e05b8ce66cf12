package crypto

import (
	"errors"
)

var (
	// Input text or bytes do not parse as a secp256k1 public or private key.
	ErrMalformedKey = errors.New("malformed key")

	// Input text or bytes do not parse as the expected cryptographic object (signature, ciphertext, nonce, commitment, scalar).
	ErrMalformedInput = errors.New("malformed input")

	// Declared plaintext encoding does not match the actual text or bytes.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// Symmetric key is not exactly 256 bits.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// AEAD decryption failed. Intentionally carries no further detail.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// Signature parsed, but did not verify against the content and public key.
	ErrInvalidSignature = errors.New("cryptographic signature invalid")
)
