// String-in, string-out API over the hippo cryptographic toolkit, for embedding in other runtimes and transports.
//
// Keys, signatures, digests, shared secrets, ciphertexts and nonces are all lower-case hex. Failures are Go errors; use [KindOf] to categorize them.
package sdk

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/crypto/hybrid"
	"github.com/hippo-protocol/hippo-protocol/crypto/pedersen"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"
	"github.com/hippo-protocol/hippo-protocol/did"
)

func CreateKeyPair() (*KeyPair, error) {
	priv, err := crypto.GeneratePrivateKeyK256()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return &KeyPair{
		Pubkey:  priv.PublicKey().Hex(),
		Privkey: priv.Hex(),
	}, nil
}

// Public key text to identifier. Pure concatenation; the key is not validated.
func KeyToDID(pubkey string) DID {
	return DID{ID: did.FromPublicKeyHex(pubkey).String()}
}

func DIDToKey(id DID) (string, error) {
	return did.PublicKeyHexFromString(id.ID)
}

func Encrypt(data string, pubkey string, enc EncodingType) (*EncryptedData, error) {
	return hybrid.EncryptHex(data, enc, pubkey)
}

func Decrypt(data *EncryptedData, privkey string, enc EncodingType) (string, error) {
	return hybrid.DecryptHex(data, privkey, enc)
}

// Encrypts with a raw 256-bit key given as 64 hex characters.
func EncryptAES(data string, key string, enc EncodingType) (*AesEncryptedData, error) {
	raw, err := symmetric.ParseKeyHex(key)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	return symmetric.Encrypt(data, enc, raw)
}

func DecryptAES(data *AesEncryptedData, key string, enc EncodingType) (string, error) {
	raw, err := symmetric.ParseKeyHex(key)
	if err != nil {
		return "", err
	}
	defer clear(raw)
	return symmetric.Decrypt(data, enc, raw)
}

// Signs the SHA-256 digest of the UTF-8 bytes of data, returning a hex DER signature.
func Sign(data string, privkey string) (string, error) {
	priv, err := crypto.ParsePrivateHexK256(privkey)
	if err != nil {
		return "", err
	}
	defer priv.Zero()
	sig, err := priv.HashAndSign([]byte(data))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// Returns false for a well-formed signature which does not verify, and an error only if the signature or key text does not parse.
func Verify(data string, sig string, pubkey string) (bool, error) {
	pub, err := crypto.ParsePublicHexK256(pubkey)
	if err != nil {
		return false, fmt.Errorf("%w: public key: %v", crypto.ErrMalformedInput, err)
	}
	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return false, fmt.Errorf("%w: signature is not hex", crypto.ErrMalformedInput)
	}
	err = pub.HashAndVerify([]byte(data), sigBytes)
	if errors.Is(err, crypto.ErrInvalidSignature) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func Sha256(data string) string {
	return crypto.DigestHex([]byte(data))
}

func ECDH(privkey string, pubkey string) (string, error) {
	priv, err := crypto.ParsePrivateHexK256(privkey)
	if err != nil {
		return "", err
	}
	defer priv.Zero()
	pub, err := crypto.ParsePublicHexK256(pubkey)
	if err != nil {
		return "", err
	}
	return priv.ECDHHex(pub), nil
}

func PedersenCommit(value uint64, tag string) (*Commitment, error) {
	c, bf, err := pedersen.Commit(value, tag)
	if err != nil {
		return nil, err
	}
	defer bf.Zero()
	return &Commitment{
		Commitment:           c.Hex(),
		SecretBlindingFactor: bf.Hex(),
	}, nil
}

// Returns false on any mismatch. Errors only when the commitment or blinding factor text does not parse.
func PedersenReveal(commitment *Commitment, value uint64, tag string) (bool, error) {
	if commitment == nil {
		return false, fmt.Errorf("%w: missing commitment", crypto.ErrMalformedInput)
	}
	c, err := pedersen.ParseCommitmentHex(commitment.Commitment)
	if err != nil {
		return false, err
	}
	bf, err := pedersen.ParseBlindingFactorHex(commitment.SecretBlindingFactor)
	if err != nil {
		return false, err
	}
	defer bf.Zero()
	return pedersen.Reveal(c, bf, value, tag), nil
}
