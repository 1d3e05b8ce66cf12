package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

const (
	// AES-256 key size.
	KeyLength = 32

	// GCM standard nonce size (96 bits).
	NonceLength = 12

	// GCM authentication tag size, appended to every ciphertext.
	TagLength = 16
)

// Output of symmetric encryption. Both fields are lower-case hex.
type Envelope struct {
	Ciphertext string `json:"data"`
	Nonce      string `json:"nonce"`
}

// Source of nonces and keys. Replaced in tests only.
var randReader io.Reader = rand.Reader

// Creates a fresh random 256-bit key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(randReader, key); err != nil {
		return nil, fmt.Errorf("symmetric key generation failed: %w", err)
	}
	return key, nil
}

// Parses a hex key. Anything which does not decode to exactly 32 bytes fails with [crypto.ErrInvalidKeyLength].
func ParseKeyHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not hex", crypto.ErrInvalidKeyLength)
	}
	if len(key) != KeyLength {
		clear(key)
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", crypto.ErrInvalidKeyLength, KeyLength, len(key))
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", crypto.ErrInvalidKeyLength, KeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", crypto.ErrInvalidKeyLength, err)
	}
	return cipher.NewGCM(block)
}

// Encrypts raw bytes with AES-256-GCM under a fresh random nonce, with no associated data.
func Seal(plaintext, key []byte) (*Envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceLength)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return &Envelope{
		Ciphertext: hex.EncodeToString(ciphertext),
		Nonce:      hex.EncodeToString(nonce),
	}, nil
}

// Decrypts an [Envelope] to raw bytes.
//
// Every failure after the key length check, including malformed hex, a wrong nonce size, a wrong key and tampering, is reported as the bare [crypto.ErrAuthenticationFailure].
func Open(env *Envelope, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, crypto.ErrAuthenticationFailure
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil || len(nonce) != NonceLength {
		return nil, crypto.ErrAuthenticationFailure
	}
	ciphertext, err := hex.DecodeString(env.Ciphertext)
	if err != nil || len(ciphertext) < TagLength {
		return nil, crypto.ErrAuthenticationFailure
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, crypto.ErrAuthenticationFailure
	}
	return plaintext, nil
}

// Decodes plaintext text according to the encoding, then encrypts it with [Seal].
func Encrypt(plaintext string, enc Encoding, key []byte) (*Envelope, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", crypto.ErrInvalidKeyLength, KeyLength, len(key))
	}
	raw, err := enc.Decode(plaintext)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	return Seal(raw, key)
}

// Decrypts with [Open], then re-encodes the recovered bytes in the requested encoding.
func Decrypt(env *Envelope, enc Encoding, key []byte) (string, error) {
	if !enc.valid() {
		return "", fmt.Errorf("%w: %s", crypto.ErrInvalidEncoding, enc)
	}
	raw, err := Open(env, key)
	if err != nil {
		return "", err
	}
	defer clear(raw)
	return enc.Encode(raw)
}
