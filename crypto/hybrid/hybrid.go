// Hybrid public-key encryption: ECDH key agreement with a per-message ephemeral K-256 key, feeding an AES-256-GCM envelope.
//
// The sender's long-term key is never involved, so compromise of it does not expose past messages.
package hybrid

import (
	"fmt"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"
)

// Output of hybrid encryption.
type Envelope struct {
	// Ephemeral public key, hex. The matching private key is discarded once encryption completes.
	PubkeyFrom string `json:"pubkey_from"`
	// Recipient public key, echoed unchanged from the encrypt call.
	PubkeyTo   string `json:"pubkey_to"`
	Ciphertext string `json:"data"`
	Nonce      string `json:"nonce"`
}

func (e *Envelope) symmetric() *symmetric.Envelope {
	return &symmetric.Envelope{Ciphertext: e.Ciphertext, Nonce: e.Nonce}
}

// Encrypts plaintext text, decoded according to enc, to the recipient's public key.
func Encrypt(plaintext string, enc symmetric.Encoding, recipient *crypto.PublicKeyK256) (*Envelope, error) {
	ephemeral, err := crypto.GeneratePrivateKeyK256()
	if err != nil {
		return nil, err
	}
	defer ephemeral.Zero()

	secret := ephemeral.ECDH(recipient)
	defer clear(secret)

	inner, err := symmetric.Encrypt(plaintext, enc, secret)
	if err != nil {
		hybridOps.WithLabelValues("encrypt", "error").Inc()
		return nil, err
	}
	hybridOps.WithLabelValues("encrypt", "ok").Inc()
	return &Envelope{
		PubkeyFrom: ephemeral.PublicKey().Hex(),
		PubkeyTo:   recipient.Hex(),
		Ciphertext: inner.Ciphertext,
		Nonce:      inner.Nonce,
	}, nil
}

// Like [Encrypt], but parses the recipient key from hex and echoes that text in the envelope exactly as given.
func EncryptHex(plaintext string, enc symmetric.Encoding, recipientHex string) (*Envelope, error) {
	recipient, err := crypto.ParsePublicHexK256(recipientHex)
	if err != nil {
		hybridOps.WithLabelValues("encrypt", "malformed").Inc()
		return nil, err
	}
	env, err := Encrypt(plaintext, enc, recipient)
	if err != nil {
		return nil, err
	}
	env.PubkeyTo = recipientHex
	return env, nil
}

// Recomputes the shared secret from the recipient private key and the envelope's ephemeral public key, then decrypts.
//
// Fails with [crypto.ErrMalformedKey] if the ephemeral key does not parse, and otherwise with the same errors as [symmetric.Decrypt].
func Decrypt(env *Envelope, recipient *crypto.PrivateKeyK256, enc symmetric.Encoding) (string, error) {
	if env == nil {
		hybridOps.WithLabelValues("decrypt", "malformed").Inc()
		return "", fmt.Errorf("%w: missing envelope", crypto.ErrMalformedInput)
	}
	ephemeral, err := crypto.ParsePublicHexK256(env.PubkeyFrom)
	if err != nil {
		hybridOps.WithLabelValues("decrypt", "malformed").Inc()
		return "", fmt.Errorf("ephemeral key: %w", err)
	}

	secret := recipient.ECDH(ephemeral)
	defer clear(secret)

	out, err := symmetric.Decrypt(env.symmetric(), enc, secret)
	if err != nil {
		hybridOps.WithLabelValues("decrypt", "error").Inc()
		return "", err
	}
	hybridOps.WithLabelValues("decrypt", "ok").Inc()
	return out, nil
}

// Like [Decrypt], but parses the recipient private key from hex.
func DecryptHex(env *Envelope, recipientHex string, enc symmetric.Encoding) (string, error) {
	recipient, err := crypto.ParsePrivateHexK256(recipientHex)
	if err != nil {
		hybridOps.WithLabelValues("decrypt", "malformed").Inc()
		return "", err
	}
	defer recipient.Zero()
	return Decrypt(env, recipient, enc)
}
