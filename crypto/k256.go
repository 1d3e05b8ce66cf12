package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mr-tron/base58"
)

// Implements private key operations for the K-256 / secp256k1 / ES256K cryptographic curve.
// Secret key material is naively stored in memory.
type PrivateKeyK256 struct {
	privK256 *secp256k1.PrivateKey
}

// K-256 / secp256k1 / ES256K public key.
type PublicKeyK256 struct {
	pubK256 *secp256k1.PublicKey
}

const (
	// Length of a raw K-256 private key (scalar).
	PrivateKeyLength = secp256k1.PrivKeyBytesLen

	// Length of a "compressed" K-256 public key.
	PublicKeyLength = secp256k1.PubKeyBytesLenCompressed

	// Length of an "uncompressed" K-256 public key.
	UncompressedPublicKeyLength = secp256k1.PubKeyBytesLenUncompressed
)

// Creates a secure new cryptographic key from scratch.
//
// Fails only if the system entropy source fails.
func GeneratePrivateKeyK256() (*PrivateKeyK256, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("K-256/secp256k1 key generation failed: %w", err)
	}
	return &PrivateKeyK256{privK256: key}, nil
}

// Loads a [PrivateKeyK256] from raw bytes, as exported by the PrivateKey.Bytes method.
//
// The bytes must be exactly 32 long and encode a scalar in the range [1, N-1].
func ParsePrivateBytesK256(data []byte) (*PrivateKeyK256, error) {
	if len(data) != PrivateKeyLength {
		return nil, fmt.Errorf("%w: K-256/secp256k1 private key must be %d bytes, got %d", ErrMalformedKey, PrivateKeyLength, len(data))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(data); overflow || scalar.IsZero() {
		scalar.Zero()
		return nil, fmt.Errorf("%w: K-256/secp256k1 private key out of range", ErrMalformedKey)
	}
	priv := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()
	return &PrivateKeyK256{privK256: priv}, nil
}

// Loads a [PrivateKeyK256] from hex, as exported by the PrivateKey.Hex method.
func ParsePrivateHexK256(s string) (*PrivateKeyK256, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not hex: %w", ErrMalformedKey, err)
	}
	return ParsePrivateBytesK256(data)
}

// Checks if the two private keys are the same. Note that the naive == operator does not work for most equality checks.
func (k *PrivateKeyK256) Equal(other *PrivateKeyK256) bool {
	if other == nil {
		return false
	}
	return k.privK256.Key.Equals(&other.privK256.Key)
}

// Serializes the secret key material in to a raw binary format, which can be parsed by [ParsePrivateBytesK256].
//
// This is the "compact" encoding and is 32 bytes long. There is no ASN.1 or other enclosing structure.
func (k *PrivateKeyK256) Bytes() []byte {
	return k.privK256.Serialize()
}

// Lower-case hex encoding of [PrivateKeyK256.Bytes].
func (k *PrivateKeyK256) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

// Multibase string encoding of the private key, including a multicodec indicator
func (k *PrivateKeyK256) Multibase() string {
	kbytes := k.Bytes()
	// multicodec secp256k1-priv, code 0x1301, varint-encoded bytes: [0x81, 0x26]
	kbytes = append([]byte{0x81, 0x26}, kbytes...)
	return "z" + base58.Encode(kbytes)
}

// Outputs the [PublicKeyK256] corresponding to this private key.
func (k *PrivateKeyK256) PublicKey() *PublicKeyK256 {
	return &PublicKeyK256{pubK256: k.privK256.PubKey()}
}

// Clears the secret scalar from memory. The key must not be used afterwards.
func (k *PrivateKeyK256) Zero() {
	k.privK256.Zero()
}

// First hashes the raw bytes, then signs the digest, returning a binary signature.
//
// SHA-256 is the hash algorithm used. This method does not "double hash", it simply has a name which clarifies that hashing is happening.
//
// The signature is DER encoded, deterministic (RFC6979), and always "low-S". Calling code is responsible for any string encoding of signatures (eg, hex).
func (k *PrivateKeyK256) HashAndSign(content []byte) ([]byte, error) {
	hash := Digest(content)
	sig := ecdsa.Sign(k.privK256, hash[:])
	return sig.Serialize(), nil
}

// Loads a [PublicKeyK256] from raw bytes. Both the "compressed" (33 byte) and "uncompressed" (65 byte) formats are accepted.
//
// Calling code must remove any string encoding (hex encoding, base64, etc) before calling this function.
func ParsePublicBytesK256(data []byte) (*PublicKeyK256, error) {
	switch len(data) {
	case PublicKeyLength, UncompressedPublicKeyLength:
	default:
		return nil, fmt.Errorf("%w: K-256/secp256k1 public key must be %d or %d bytes, got %d", ErrMalformedKey, PublicKeyLength, UncompressedPublicKeyLength, len(data))
	}
	pubK, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid K-256/secp256k1 public key: %w", ErrMalformedKey, err)
	}
	return &PublicKeyK256{pubK256: pubK}, nil
}

// Loads a [PublicKeyK256] from hex, as exported by the PublicKey.Hex method.
func ParsePublicHexK256(s string) (*PublicKeyK256, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not hex: %w", ErrMalformedKey, err)
	}
	return ParsePublicBytesK256(data)
}

// Checks if the two public keys are the same. Note that the naive == operator does not work for most equality checks.
func (k *PublicKeyK256) Equal(other *PublicKeyK256) bool {
	if other == nil {
		return false
	}
	return k.pubK256.IsEqual(other.pubK256)
}

// Serializes the key in to "compressed" binary format.
func (k *PublicKeyK256) Bytes() []byte {
	return k.pubK256.SerializeCompressed()
}

// Serializes the key in to "uncompressed" binary format.
func (k *PublicKeyK256) UncompressedBytes() []byte {
	return k.pubK256.SerializeUncompressed()
}

// Lower-case hex encoding of the "compressed" binary format. This is the canonical textual form of public keys in this toolkit.
func (k *PublicKeyK256) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

func (k *PublicKeyK256) String() string {
	return k.Hex()
}

// First hashes the raw bytes, then verifies the digest, returning `nil` for valid signatures, or an error for any failure.
//
// Signatures which can not be parsed at all (neither DER, nor 64-byte `[R | S]` compact) result in an error wrapping [ErrMalformedInput]. Structurally valid signatures which do not verify, including "high-S" signatures, result in [ErrInvalidSignature].
func (k *PublicKeyK256) HashAndVerify(content, sig []byte) error {
	parsed, err := parseSignature(sig)
	if err != nil {
		return err
	}
	s := parsed.S()
	if s.IsOverHalfOrder() {
		signatureVerifications.WithLabelValues("invalid").Inc()
		return ErrInvalidSignature
	}
	hash := Digest(content)
	if !parsed.Verify(hash[:], k.pubK256) {
		signatureVerifications.WithLabelValues("invalid").Inc()
		return ErrInvalidSignature
	}
	signatureVerifications.WithLabelValues("valid").Inc()
	return nil
}

func parseSignature(sig []byte) (*ecdsa.Signature, error) {
	if len(sig) == 64 {
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
			return nil, fmt.Errorf("%w: signature R value out of range", ErrMalformedInput)
		}
		if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
			return nil, fmt.Errorf("%w: signature S value out of range", ErrMalformedInput)
		}
		return ecdsa.NewSignature(&r, &s), nil
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrMalformedInput, err)
	}
	return parsed, nil
}

// Returns a multibased string encoding of the public key, including a multicodec indicator and compressed curve bytes serialization
func (k *PublicKeyK256) Multibase() string {
	kbytes := k.Bytes()
	// multicodec secp256k1-pub, code 0xE7, varint bytes: [0xE7, 0x01]
	kbytes = append([]byte{0xE7, 0x01}, kbytes...)
	return "z" + base58.Encode(kbytes)
}

// Returns a did:key string encoding of the public key:
//
//   - compressed / compacted binary representation
//   - prefix with appropriate curve multicodec bytes
//   - encode bytes with base58btc
//   - add "z" prefix to indicate encoding
//   - add "did:key:" prefix
func (k *PublicKeyK256) DIDKey() string {
	return "did:key:" + k.Multibase()
}
