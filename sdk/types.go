package sdk

import (
	"github.com/hippo-protocol/hippo-protocol/crypto/hybrid"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"
)

type KeyPair struct {
	Pubkey  string `json:"pubkey"`
	Privkey string `json:"privkey"`
}

type DID struct {
	ID string `json:"id"`
}

// Plaintext encoding; marshals as "UTF8", "HEX" or "BASE64", and also accepts 0, 1 and 2.
type EncodingType = symmetric.Encoding

const (
	UTF8   = symmetric.UTF8
	HEX    = symmetric.Hex
	BASE64 = symmetric.Base64
)

// Output of [Encrypt]: ephemeral sender key, recipient key, ciphertext and nonce, all hex.
type EncryptedData = hybrid.Envelope

// Output of [EncryptAES]: ciphertext and nonce, both hex.
type AesEncryptedData = symmetric.Envelope

// Bundled commitment and opening, as exchanged between committer and verifier.
//
// The blinding factor is secret: publish only the Commitment field.
type Commitment struct {
	Commitment           string `json:"commitment"`
	SecretBlindingFactor string `json:"secret_blinding_factor"`
}
