// Cryptographic keys and operations for the hippo identity toolkit.
//
// This package keeps the curve arithmetic out of sight of calling code. There is exactly one supported curve, K-256/secp256k1, internally implemented using <github.com/decred/dcrd/dcrec/secp256k1/v4>. There are no algorithm knobs.
//
// Textual encodings used across the toolkit:
//
//   - public keys: hex of the 33-byte "compressed" SEC1 point
//   - private keys: hex of the 32-byte big-endian scalar
//   - signatures: hex of the DER encoding; "low-S" is enforced both when creating signatures and during verification
//   - digests and ECDH shared secrets: hex of 32 bytes
//
// Public keys can additionally be expressed in multibase and did:key syntax, and as JWK.
//
// This package uses concrete types for private keys, meaning that the secret key material is present in memory. Use [PrivateKeyK256.Zero] once a key is no longer needed.
package crypto
