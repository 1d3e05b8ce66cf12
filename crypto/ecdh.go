package crypto

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Length of an ECDH shared secret, in bytes. Exactly the size of an AES-256 key.
const SharedSecretLength = 32

// Computes the elliptic-curve Diffie-Hellman shared secret between this private key and the other party's public key.
//
// The result is the SHA-256 digest of the "compressed" encoding of the shared point, matching the default ECDH hash of libsecp256k1. For any two key pairs A and B, A.ECDH(B.pub) == B.ECDH(A.pub).
//
// The returned slice is secret key material; callers should clear it when done.
func (k *PrivateKeyK256) ECDH(pub *PublicKeyK256) []byte {
	var point, result secp256k1.JacobianPoint
	pub.pubK256.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&k.privK256.Key, &point, &result)
	result.ToAffine()

	shared := secp256k1.NewPublicKey(&result.X, &result.Y)
	compressed := shared.SerializeCompressed()
	digest := Digest(compressed)
	clear(compressed)

	out := make([]byte, SharedSecretLength)
	copy(out, digest[:])
	clear(digest[:])
	return out
}

// Lower-case hex encoding of [PrivateKeyK256.ECDH].
func (k *PrivateKeyK256) ECDHHex(pub *PublicKeyK256) string {
	secret := k.ECDH(pub)
	defer clear(secret)
	return hex.EncodeToString(secret)
}
