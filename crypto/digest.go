package crypto

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
)

// Length of a SHA-256 digest, in bytes.
const DigestLength = sha256.Size

// SHA-256 over the raw bytes. Deterministic, and involves no secret material.
func Digest(data []byte) [DigestLength]byte {
	return sha256.Sum256(data)
}

// Lower-case hex encoding of [Digest]; always 64 characters.
func DigestHex(data []byte) string {
	d := Digest(data)
	return hex.EncodeToString(d[:])
}
